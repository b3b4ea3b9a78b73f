// Package steg runs the encrypt and decrypt flows on top of the codec,
// the image store and the credential store.
package steg

import (
	"io"

	"github.com/corpix/stegano/codec"
	"github.com/corpix/stegano/credential"
	"github.com/corpix/stegano/errors"
	"github.com/corpix/stegano/imagestore"
	"github.com/corpix/stegano/log"
	"github.com/corpix/stegano/metrics"
)

type (
	Service struct {
		Images      *imagestore.Store
		Credentials credential.Store
	}

	EncryptRequest struct {
		Image    io.Reader
		Filename string
		Message  string
		Password string
	}
	EncryptResult struct {
		ImageID    string
		UploadName string
		OutputName string
		StoredName string
	}

	DecryptRequest struct {
		Image    io.Reader
		Filename string
		Password string
		ImageID  string
	}
)

const (
	OperationEncrypt = "encrypt"
	OperationDecrypt = "decrypt"

	outcomeOk     = "ok"
	outcomeDenied = "denied"
)

var operations = metrics.NewCounterVec(metrics.CounterOpts{
	Name: "stegano_operations_total",
	Help: "Encrypt and decrypt operations by outcome.",
}, []string{"operation", "outcome"})

func init() {
	metrics.MustRegister(operations)
}

func observe(operation string, err error) {
	outcome := outcomeOk
	if err != nil {
		outcome = KindOf(err).String()
	}
	operations.WithLabelValues(operation, outcome).Inc()
}

//

// Encrypt stores the upload, embeds the message into it, saves the result
// under a fresh name and records the password for the new image id.
func (s *Service) Encrypt(req *EncryptRequest) (res *EncryptResult, err error) {
	defer func() { observe(OperationEncrypt, err) }()

	if req.Image == nil || !imagestore.AllowedFile(req.Filename) {
		return nil, errors.Wrapf(ErrInvalidImage, "%q", req.Filename)
	}
	if req.Message == "" || req.Password == "" {
		return nil, ErrFieldsRequired
	}

	upload, output := imagestore.NewName()
	defer func() {
		if err != nil {
			s.discard(upload, output)
		}
	}()

	err = s.Images.Put(upload, req.Image)
	if err != nil {
		return nil, err
	}

	img, err := s.Images.Load(upload)
	if err != nil {
		return nil, err
	}
	_, err = codec.Encode(img, req.Message)
	if err != nil {
		return nil, err
	}
	err = s.Images.Save(output, img)
	if err != nil {
		return nil, err
	}

	id, err := s.record(output, req.Password)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("image-id", id).
		Str("output", output).
		Int("capacity", codec.Capacity(img)).
		Msg("message embedded")

	return &EncryptResult{
		ImageID:    id,
		UploadName: upload,
		OutputName: output,
		StoredName: output,
	}, nil
}

// Decrypt reads the message from the uploaded image when the password
// matches the one recorded for the image id.
func (s *Service) Decrypt(req *DecryptRequest) (res codec.Result, err error) {
	defer func() { observeResult(res, err) }()

	if req.Image == nil || !imagestore.AllowedFile(req.Filename) {
		return codec.Denied(), errors.Wrapf(ErrInvalidImage, "%q", req.Filename)
	}
	if req.Password == "" || req.ImageID == "" {
		return codec.Denied(), ErrFieldsRequired
	}

	img, _, err := imagestore.Decode(req.Image)
	if err != nil {
		return codec.Denied(), err
	}
	return s.decode(img, req.ImageID, req.Password)
}

// DecryptStored is Decrypt for an image the store produced itself.
func (s *Service) DecryptStored(imageID string, password string) (res codec.Result, err error) {
	defer func() { observeResult(res, err) }()

	if password == "" || imageID == "" {
		return codec.Denied(), ErrFieldsRequired
	}
	r, err := s.lookup(imageID)
	if err != nil {
		return codec.Denied(), err
	}
	img, err := s.Images.Load(r.ImageName)
	if err != nil {
		return codec.Denied(), err
	}
	return s.authorize(img, r, password)
}

//

// EncryptFile works on local paths, the output may live outside the store
// so a copy is kept in the store for DecryptStored.
func (s *Service) EncryptFile(input string, output string, message string, password string) (res *EncryptResult, err error) {
	defer func() { observe(OperationEncrypt, err) }()

	if message == "" || password == "" {
		return nil, ErrFieldsRequired
	}
	img, err := imagestore.Load(input)
	if err != nil {
		return nil, err
	}
	_, err = codec.Encode(img, message)
	if err != nil {
		return nil, err
	}
	err = imagestore.Save(output, img)
	if err != nil {
		return nil, err
	}

	_, stored := imagestore.NewName()
	defer func() {
		if err != nil {
			s.discard(stored)
		}
	}()
	err = s.Images.Save(stored, img)
	if err != nil {
		return nil, err
	}

	id, err := s.record(stored, password)
	if err != nil {
		return nil, err
	}
	return &EncryptResult{
		ImageID:    id,
		OutputName: output,
		StoredName: stored,
	}, nil
}

func (s *Service) DecryptFile(path string, imageID string, password string) (res codec.Result, err error) {
	defer func() { observeResult(res, err) }()

	if password == "" || imageID == "" {
		return codec.Denied(), ErrFieldsRequired
	}
	img, err := imagestore.Load(path)
	if err != nil {
		return codec.Denied(), err
	}
	return s.decode(img, imageID, password)
}

//

func (s *Service) record(imageName string, password string) (string, error) {
	r := credential.NewRecord(imageName, password)
	err := s.Credentials.Put(r)
	if err != nil {
		return "", errors.Mark(err, ErrCredentialStore)
	}
	return r.ID, nil
}

// discard removes files of a failed encrypt.
func (s *Service) discard(names ...string) {
	err := s.Images.Remove(names...)
	if err != nil {
		log.Warn().Err(err).Strs("names", names).Msg("failed to remove leftover images")
	}
}

func (s *Service) lookup(imageID string) (*credential.Record, error) {
	r, err := s.Credentials.Get(imageID)
	if err != nil {
		if errors.Is(err, credential.ErrNotFound) {
			return nil, err
		}
		return nil, errors.Mark(err, ErrCredentialStore)
	}
	return r, nil
}

func (s *Service) decode(img *codec.Image, imageID string, password string) (codec.Result, error) {
	r, err := s.lookup(imageID)
	if err != nil {
		return codec.Denied(), err
	}
	return s.authorize(img, r, password)
}

func (s *Service) authorize(img *codec.Image, r *credential.Record, password string) (codec.Result, error) {
	res, err := codec.Decode(img, password, r.Password)
	if err != nil {
		return codec.Denied(), err
	}
	if !res.Authorized() {
		log.Warn().Str("image-id", r.ID).Msg("password mismatch")
	}
	return res, nil
}

func observeResult(res codec.Result, err error) {
	if err == nil && !res.Authorized() {
		operations.WithLabelValues(OperationDecrypt, outcomeDenied).Inc()
		return
	}
	observe(OperationDecrypt, err)
}

func New(images *imagestore.Store, credentials credential.Store) *Service {
	return &Service{
		Images:      images,
		Credentials: credentials,
	}
}

// Package credential keeps the password of every encoded image keyed by
// its image id.
package credential

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/philippgille/gokv"
	gokvencoding "github.com/philippgille/gokv/encoding"
	"github.com/philippgille/gokv/file"
	"github.com/philippgille/gokv/redis"
	"github.com/philippgille/gokv/syncmap"

	"github.com/corpix/stegano/encoding"
	"github.com/corpix/stegano/errors"
	"github.com/corpix/stegano/log"
)

type (
	Record struct {
		ID        string    `json:"id" msgpack:"id"`
		ImageName string    `json:"image-name" msgpack:"image-name"`
		Password  string    `json:"password" msgpack:"password"`
		CreatedAt time.Time `json:"created-at" msgpack:"created-at"`
	}
	Store interface {
		Put(*Record) error
		Get(id string) (*Record, error)
		Delete(id string) error
		Close() error
	}
	StoreKV struct {
		kv gokv.Store
	}
)

var (
	ErrNotFound  = errors.New("image id not found")
	ErrInvalidID = errors.New("image id is not valid")

	_ Store              = &StoreKV{}
	_ gokvencoding.Codec = encoding.CodecMsgpack{}
	_ gokvencoding.Codec = &encoding.CodecStaged{}
)

func NewID() string { return uuid.New().String() }

// ValidID reports whether id looks like an id produced by NewID.
// Ids end up as file names in the file store and must not be free form.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func NewRecord(imageName string, password string) *Record {
	return &Record{
		ID:        NewID(),
		ImageName: imageName,
		Password:  password,
		CreatedAt: time.Now().UTC(),
	}
}

//

func (s *StoreKV) Put(r *Record) error {
	if !ValidID(r.ID) {
		return errors.Wrapf(ErrInvalidID, "%q", r.ID)
	}
	err := s.kv.Set(r.ID, r)
	if err != nil {
		return errors.Wrapf(err, "failed to store credential for %q", r.ID)
	}
	return nil
}

func (s *StoreKV) Get(id string) (*Record, error) {
	if !ValidID(id) {
		return nil, errors.Wrapf(ErrNotFound, "%q", id)
	}
	r := &Record{}
	found, err := s.kv.Get(id, r)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load credential for %q", id)
	}
	if !found {
		return nil, errors.Wrapf(ErrNotFound, "%q", id)
	}
	return r, nil
}

func (s *StoreKV) Delete(id string) error {
	if !ValidID(id) {
		return errors.Wrapf(ErrInvalidID, "%q", id)
	}
	return s.kv.Delete(id)
}

func (s *StoreKV) Close() error { return s.kv.Close() }

func NewStoreKV(kv gokv.Store) *StoreKV {
	return &StoreKV{kv: kv}
}

//

func New(c *Config) (Store, error) {
	codec, err := NewCodec(c)
	if err != nil {
		return nil, err
	}

	var kv gokv.Store
	switch StoreType(strings.ToLower(c.Type)) {
	case StoreTypeMemory:
		kv = syncmap.NewStore(syncmap.Options{Codec: codec})
	case StoreTypeFile:
		kv, err = file.NewStore(file.Options{
			Directory: c.File.Directory,
			Codec:     codec,
		})
	case StoreTypeRedis:
		kv, err = redis.NewClient(redis.Options{
			Address:  c.Redis.Address,
			Password: c.Redis.Password,
			DB:       c.Redis.DB,
			Codec:    codec,
		})
	default:
		return nil, errors.Errorf("unsupported credential store type %q", c.Type)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create %q credential store", c.Type)
	}

	log.Debug().
		Str("type", c.Type).
		Str("codec", c.Codec).
		Bool("compress", c.Compress).
		Bool("secretbox", c.SecretBox != nil).
		Msg("credential store ready")

	return NewStoreKV(kv), nil
}

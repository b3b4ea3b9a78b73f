package credential

import (
	"bytes"
	"os"
	"strings"

	"github.com/corpix/stegano/encoding"
	"github.com/corpix/stegano/errors"
)

type (
	Config struct {
		Type      string           `yaml:"type"`
		Codec     string           `yaml:"codec"`
		Compress  bool             `yaml:"compress"`
		File      *FileConfig      `yaml:"file,omitempty"`
		Redis     *RedisConfig     `yaml:"redis,omitempty"`
		SecretBox *SecretBoxConfig `yaml:"secretbox,omitempty"`
	}
	StoreType string
	CodecType string

	FileConfig struct {
		Directory string `yaml:"directory"`
	}
	RedisConfig struct {
		Address  string `yaml:"address"`
		Password string `yaml:"password,omitempty"`
		DB       int    `yaml:"db"`
	}
	SecretBoxConfig struct {
		Key     string `yaml:"key,omitempty"`
		KeyFile string `yaml:"key-file,omitempty"`
		key     encoding.SecretBoxKey
	}
)

const (
	StoreTypeMemory StoreType = "memory"
	StoreTypeFile   StoreType = "file"
	StoreTypeRedis  StoreType = "redis"

	CodecTypeJson    CodecType = "json"
	CodecTypeMsgpack CodecType = "msgpack"
)

func (c *Config) Default() {
	if c.Type == "" {
		c.Type = string(StoreTypeFile)
	}
	if c.Codec == "" {
		c.Codec = string(CodecTypeMsgpack)
	}
	if c.Type == string(StoreTypeFile) && c.File == nil {
		c.File = &FileConfig{}
	}
	if c.Type == string(StoreTypeRedis) && c.Redis == nil {
		c.Redis = &RedisConfig{}
	}
	if c.File != nil {
		c.File.Default()
	}
	if c.Redis != nil {
		c.Redis.Default()
	}
}

func (c *Config) Validate() error {
	switch StoreType(strings.ToLower(c.Type)) {
	case
		StoreTypeMemory,
		StoreTypeFile,
		StoreTypeRedis:
	default:
		return errors.Errorf("unsupported credential store type %q", c.Type)
	}
	switch CodecType(strings.ToLower(c.Codec)) {
	case
		CodecTypeJson,
		CodecTypeMsgpack:
	default:
		return errors.Errorf("unsupported credential codec %q", c.Codec)
	}
	return nil
}

//

func (c *FileConfig) Default() {
	if c.Directory == "" {
		c.Directory = "credentials"
	}
}

func (c *RedisConfig) Default() {
	if c.Address == "" {
		c.Address = "127.0.0.1:6379"
	}
}

//

func (c *SecretBoxConfig) Validate() error {
	if c.Key != "" && c.KeyFile != "" {
		return errors.New("either key or key-file must be defined, not both")
	}
	if c.Key == "" && c.KeyFile == "" {
		return errors.New("either key or key-file must be defined")
	}

	var emptyKey encoding.SecretBoxKey
	if bytes.Equal(c.key[:], emptyKey[:]) {
		return errors.Errorf("key should be %d non-zero bytes", encoding.SecretBoxKeySize)
	}
	return nil
}

func (c *SecretBoxConfig) Expand() error {
	var (
		err error
		key []byte
	)
	if c.KeyFile != "" {
		key, err = os.ReadFile(c.KeyFile)
		if err != nil {
			return errors.Wrapf(err, "failed to load key-file: %q", c.KeyFile)
		}
	} else {
		key = []byte(c.Key)
	}
	copy(c.key[:], key)
	return nil
}

func (c *SecretBoxConfig) SecretBoxKey() *encoding.SecretBoxKey { return &c.key }

//

// NewCodec builds the value codec for c: serialization, then optional
// zstd compression, then optional secretbox sealing.
func NewCodec(c *Config) (encoding.Codec, error) {
	var (
		codec  encoding.Codec
		stages []encoding.EncodeDecoder
	)
	switch CodecType(strings.ToLower(c.Codec)) {
	case CodecTypeJson:
		codec = encoding.CodecJson{}
	case CodecTypeMsgpack:
		codec = encoding.CodecMsgpack{}
	default:
		return nil, errors.Errorf("unsupported credential codec %q", c.Codec)
	}

	if c.Compress {
		zstd, err := encoding.NewEncodeDecoderZstd()
		if err != nil {
			return nil, errors.Wrap(err, "failed to create zstd encoder")
		}
		stages = append(stages, zstd)
	}
	if c.SecretBox != nil {
		stages = append(stages, encoding.NewEncodeDecoderSecretBox(c.SecretBox.SecretBoxKey()))
	}

	return encoding.NewCodecStaged(codec, stages...), nil
}

package builtins

import (
	"context"
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/x509"
	"encoding/pem"
	"hash"
	"io"

	"github.com/pkg/errors"

	"github.com/askiada/go-codec/pkg/codec"
)

var (
	ErrNoPEMBlock       = errors.New("no PEM block found")
	ErrNotRSAKey        = errors.New("key is not an RSA key")
	ErrUnknownHash      = errors.New("unknown hash algorithm")
	ErrUnknownPadding   = errors.New("unknown padding scheme")
	ErrMissingSignature = errors.New("missing signature")
)

type rsaCryptCodec struct{}

func (*rsaCryptCodec) Run(_ context.Context, in io.Reader, mode codec.Mode, opts codec.Options, out io.Writer) error {
	scheme, _ := opts.String("PS")
	if scheme == "" {
		scheme = "oaep"
	}

	if scheme != "oaep" && scheme != "pkcs15" {
		return errors.Wrap(ErrUnknownPadding, scheme)
	}

	hashName, _ := opts.String("H")
	if hashName == "" {
		hashName = "sha256"
	}

	newHash, _, err := hashByName(hashName)
	if err != nil {
		return err
	}

	input, err := io.ReadAll(in)
	if err != nil {
		return err
	}

	var result []byte

	if mode == codec.Encode {
		pub, err := publicKey(opts)
		if err != nil {
			return err
		}

		if scheme == "oaep" {
			result, err = rsa.EncryptOAEP(newHash(), rand.Reader, pub, input, nil)
		} else {
			result, err = rsa.EncryptPKCS1v15(rand.Reader, pub, input)
		}

		if err != nil {
			return errors.Wrap(err, "unable to encrypt")
		}
	} else {
		priv, err := privateKey(opts)
		if err != nil {
			return err
		}

		if scheme == "oaep" {
			result, err = rsa.DecryptOAEP(newHash(), nil, priv, input, nil)
		} else {
			result, err = rsa.DecryptPKCS1v15(nil, priv, input)
		}

		if err != nil {
			return errors.Wrap(err, "unable to decrypt")
		}
	}

	_, err = out.Write(result)

	return err
}

func (*rsaCryptCodec) Usage() string {
	return `    rsa encryption with public key and decryption with private key
    -PK pub_key: public key pem string, default pkcs1 format
    -SK pri_key: private key pem string, default pkcs1 format
    -8: use pkcs8 key format instead of pkcs1
    -dr: use der format instead of pem
    -PS scheme: padding scheme (oaep, pkcs15; defaults to oaep)
    -H algorithm: hash algorithm used for oaep padding scheme (sha1, sha256; defaults to sha256)
`
}

type rsaSignCodec struct{}

// Run signs the input, which must already be a digest made with -H. Decoding
// verifies it against -S and writes nothing.
func (*rsaSignCodec) Run(_ context.Context, in io.Reader, mode codec.Mode, opts codec.Options, out io.Writer) error {
	var digest crypto.Hash

	if hashName, ok := opts.String("H"); ok {
		_, h, err := hashByName(hashName)
		if err != nil {
			return err
		}

		digest = h
	}

	if mode == codec.Encode {
		priv, err := privateKey(opts)
		if err != nil {
			return err
		}

		input, err := io.ReadAll(in)
		if err != nil {
			return err
		}

		sig, err := rsa.SignPKCS1v15(rand.Reader, priv, digest, input)
		if err != nil {
			return errors.Wrap(err, "unable to sign")
		}

		_, err = out.Write(sig)

		return err
	}

	pub, err := publicKey(opts)
	if err != nil {
		return err
	}

	sig, ok := opts.Text("S")
	if !ok {
		return errors.Wrap(ErrMissingSignature, "-S")
	}

	input, err := io.ReadAll(in)
	if err != nil {
		return err
	}

	return errors.Wrap(rsa.VerifyPKCS1v15(pub, digest, input, sig), "unable to verify")
}

func (*rsaSignCodec) Usage() string {
	return `    rsa sign with private key and verification with public key
    NOTE:
        1. input must first be hashed in algorithm specified in -H option
            e.g. sha256 rsa-sign -SK sk_string -H sha256
        2. for verification, output nothing if succeeded, error if not
    -PK pub_key: public key pem string or der bytes, default pkcs1 format
    -SK pri_key: private key pem string or der bytes, default pkcs1 format
    -8: use pkcs8 key format instead of pkcs1
    -dr: use der format instead of pem
    -H algorithm: hash algorithm used for sign (sha1, sha256)
    -S signature: signature to verify against when decoding
`
}

func hashByName(name string) (func() hash.Hash, crypto.Hash, error) {
	switch name {
	case "sha1":
		return sha1.New, crypto.SHA1, nil
	case "sha256":
		return sha256.New, crypto.SHA256, nil
	default:
		return nil, 0, errors.Wrap(ErrUnknownHash, name)
	}
}

// keyBytes returns the DER bytes of a key option, decoding PEM unless -dr is set.
func keyBytes(opts codec.Options, name, desc string) ([]byte, error) {
	text, err := opts.Required(name, desc)
	if err != nil {
		return nil, err
	}

	if opts.Switch("dr") {
		return text, nil
	}

	block, _ := pem.Decode(text)
	if block == nil {
		return nil, errors.Wrap(ErrNoPEMBlock, desc)
	}

	return block.Bytes, nil
}

func publicKey(opts codec.Options) (*rsa.PublicKey, error) {
	der, err := keyBytes(opts, "PK", "public key")
	if err != nil {
		return nil, err
	}

	if !opts.Switch("8") {
		pub, err := x509.ParsePKCS1PublicKey(der)

		return pub, errors.Wrap(err, "unable to parse public key")
	}

	key, err := x509.ParsePKIXPublicKey(der)
	if err != nil {
		return nil, errors.Wrap(err, "unable to parse public key")
	}

	pub, ok := key.(*rsa.PublicKey)
	if !ok {
		return nil, ErrNotRSAKey
	}

	return pub, nil
}

func privateKey(opts codec.Options) (*rsa.PrivateKey, error) {
	der, err := keyBytes(opts, "SK", "private key")
	if err != nil {
		return nil, err
	}

	if !opts.Switch("8") {
		priv, err := x509.ParsePKCS1PrivateKey(der)

		return priv, errors.Wrap(err, "unable to parse private key")
	}

	key, err := x509.ParsePKCS8PrivateKey(der)
	if err != nil {
		return nil, errors.Wrap(err, "unable to parse private key")
	}

	priv, ok := key.(*rsa.PrivateKey)
	if !ok {
		return nil, ErrNotRSAKey
	}

	return priv, nil
}

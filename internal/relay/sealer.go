package relay

import (
	"crypto/rand"
	"errors"
	"sync"

	"github.com/cloudflare/circl/cipher/ascon"
)

// NonceSize is the size of the random nonce prepended to every sealed
// datagram.
const NonceSize = 16

// ErrOpenFailed indicates that a sealed datagram could not be authenticated.
var ErrOpenFailed = errors.New("relay: failed opening sealed datagram")

// Sealer represents an instance capable of sealing and opening datagrams
// using the Ascon-128a AEAD. Relayed telemetry may cross networks the game
// host does not control; sealing keeps it opaque and tamper-evident.
type Sealer interface {
	// Seal returns the ciphered form of data, prefixed by its nonce. When
	// the Sealer has no key, data is returned as-is.
	Seal(data []byte) ([]byte, error)

	// Open returns the plain form of a buffer produced by Seal. When the
	// Sealer has no key, data is returned as-is.
	Open(data []byte) ([]byte, error)

	// Overhead returns how many bytes Seal adds to its input.
	Overhead() int
}

// NewSealer returns a new Sealer. When key is empty or nil, the returned
// Sealer performs NOOPs on both Seal and Open operations. Otherwise, key must
// be 16 bytes long.
func NewSealer(key []byte) (Sealer, error) {
	if len(key) == 0 {
		return &asconSealer{enabled: false}, nil
	}

	encCipher, err := ascon.New(key, ascon.Ascon128a)
	if err != nil {
		return nil, err
	}
	decCipher, err := ascon.New(key, ascon.Ascon128a)
	if err != nil {
		return nil, err
	}

	return &asconSealer{
		enabled:      true,
		encodeCipher: encCipher,
		decodeCipher: decCipher,
	}, nil
}

type asconSealer struct {
	encodeMu     sync.Mutex
	encodeCipher *ascon.Cipher

	decodeMu     sync.Mutex
	decodeCipher *ascon.Cipher

	enabled bool
}

func (a *asconSealer) Overhead() int {
	if !a.enabled {
		return 0
	}
	return NonceSize + a.encodeCipher.Overhead()
}

func (a *asconSealer) Seal(data []byte) ([]byte, error) {
	if !a.enabled {
		return data, nil
	}

	nonce := make([]byte, NonceSize, NonceSize+len(data)+a.encodeCipher.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}

	a.encodeMu.Lock()
	defer a.encodeMu.Unlock()
	return a.encodeCipher.Seal(nonce, nonce, data, nil), nil
}

func (a *asconSealer) Open(data []byte) ([]byte, error) {
	if !a.enabled {
		return data, nil
	}
	if len(data) < NonceSize+a.decodeCipher.Overhead() {
		return nil, ErrOpenFailed
	}

	a.decodeMu.Lock()
	defer a.decodeMu.Unlock()

	result, err := a.decodeCipher.Open(nil, data[:NonceSize], data[NonceSize:], nil)
	if err != nil {
		return nil, ErrOpenFailed
	}
	return result, nil
}

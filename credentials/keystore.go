package credentials

import (
	"bytes"
	"crypto"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	pkcs12 "software.sslmate.com/src/go-pkcs12"
)

// PEM header names produced by pkcs12.ToPEM for bag attributes.
const (
	attrFriendlyName = "friendlyName"
	attrLocalKeyID   = "localKeyId"
)

// Entry is one alias of a keystore: either a private key with its
// certificate chain, or a named certificate.
type Entry struct {
	Alias string

	// PrivateKey is nil for certificate-only entries.
	PrivateKey crypto.Signer

	Certificate *x509.Certificate

	// Chain starts with Certificate and continues with the issuers found
	// in the same keystore.
	Chain []*x509.Certificate
}

// IsKeyEntry reports whether the entry carries a private key.
func (e *Entry) IsKeyEntry() bool {
	return e.PrivateKey != nil
}

// Keystore is a decoded PKCS#12 file. Entries keep the order of the bags
// in the file.
type Keystore struct {
	entries []*Entry
	certs   []*x509.Certificate
}

type bag struct {
	friendlyName string
	localKeyID   string
	cert         *x509.Certificate
	key          crypto.Signer
	used         bool
}

// OpenKeystore reads a PKCS#12 keystore from path.
func OpenKeystore(path, password string) (*Keystore, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ReadKeystore(f, password)
}

// ReadKeystore decodes a PKCS#12 keystore. It fails with ErrEmptyKeystore
// when the file holds no entries.
//
// Key bags and certificate bags are paired by their localKeyId attribute.
// An entry's alias is the friendlyName attribute; without one the hex
// localKeyId is used. Certificates that are neither paired with a key nor
// named only serve to build chains.
//
// Both the legacy PBE-SHA1 schemes and the PBES2/AES scheme with a
// SHA-256 MAC written by default by OpenSSL 3 and current keytool releases
// are accepted. The file must carry the two safes those tools write, one
// for certificates and one for keys; files with a single safe are rejected
// as malformed.
func ReadKeystore(r io.Reader, password string) (*Keystore, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	ks, err := decodeKeystore(data, password)
	if err != nil {
		return nil, err
	}

	if ks.Len() == 0 {
		return nil, ErrEmptyKeystore
	}

	return ks, nil
}

func decodeKeystore(data []byte, password string) (*Keystore, error) {
	blocks, err := pkcs12.ToPEM(data, password)
	if err != nil {
		if errors.Is(err, pkcs12.ErrIncorrectPassword) {
			return nil, ErrIncorrectPassword
		}

		return nil, fmt.Errorf("%w: %w", ErrMalformedKeystore, err)
	}

	var keys, certs []*bag

	for _, block := range blocks {
		b := &bag{
			friendlyName: block.Headers[attrFriendlyName],
			localKeyID:   block.Headers[attrLocalKeyID],
		}

		switch block.Type {
		case "CERTIFICATE":
			b.cert, err = x509.ParseCertificate(block.Bytes)
			if err != nil {
				return nil, fmt.Errorf("%w: %w", ErrMalformedKeystore, err)
			}

			certs = append(certs, b)

		case "PRIVATE KEY":
			b.key, err = parsePrivateKey(block)
			if err != nil {
				return nil, err
			}

			keys = append(keys, b)
		}
	}

	ks := &Keystore{}
	for _, c := range certs {
		ks.certs = append(ks.certs, c.cert)
	}

	for _, k := range keys {
		c := pairCertificate(k, certs)
		if c == nil {
			return nil, fmt.Errorf("%w: private key %q has no certificate", ErrMalformedKeystore, alias(k, nil, len(ks.entries)))
		}

		c.used = true
		ks.entries = append(ks.entries, &Entry{
			Alias:       alias(k, c, len(ks.entries)),
			PrivateKey:  k.key,
			Certificate: c.cert,
			Chain:       buildChain(c.cert, ks.certs),
		})
	}

	for _, c := range certs {
		if c.used || c.friendlyName == "" {
			continue
		}

		ks.entries = append(ks.entries, &Entry{
			Alias:       c.friendlyName,
			Certificate: c.cert,
			Chain:       buildChain(c.cert, ks.certs),
		})
	}

	return ks, nil
}

// parsePrivateKey decodes the key bytes emitted by pkcs12.ToPEM, which
// re-encodes RSA keys as PKCS#1 and EC keys as SEC 1.
func parsePrivateKey(block *pem.Block) (crypto.Signer, error) {
	if key, err := x509.ParsePKCS1PrivateKey(block.Bytes); err == nil {
		return key, nil
	}

	if key, err := x509.ParseECPrivateKey(block.Bytes); err == nil {
		return key, nil
	}

	return nil, fmt.Errorf("%w: cannot parse private key", ErrUnsupportedKey)
}

// pairCertificate finds the certificate bag belonging to key: same
// localKeyId, or failing that the same public key.
func pairCertificate(key *bag, certs []*bag) *bag {
	if key.localKeyID != "" {
		for _, c := range certs {
			if !c.used && c.localKeyID == key.localKeyID {
				return c
			}
		}
	}

	type publicKey interface {
		Equal(crypto.PublicKey) bool
	}

	pub, ok := key.key.Public().(publicKey)
	if !ok {
		return nil
	}

	for _, c := range certs {
		if !c.used && pub.Equal(c.cert.PublicKey) {
			return c
		}
	}

	return nil
}

func alias(key, cert *bag, index int) string {
	switch {
	case key.friendlyName != "":
		return key.friendlyName
	case cert != nil && cert.friendlyName != "":
		return cert.friendlyName
	case key.localKeyID != "":
		return key.localKeyID
	default:
		return fmt.Sprintf("entry-%d", index)
	}
}

// buildChain follows issuer links from leaf through pool until a
// self-signed certificate or a missing issuer.
func buildChain(leaf *x509.Certificate, pool []*x509.Certificate) []*x509.Certificate {
	chain := []*x509.Certificate{leaf}

	for cur := leaf; !bytes.Equal(cur.RawIssuer, cur.RawSubject); {
		var next *x509.Certificate

		for _, c := range pool {
			if bytes.Equal(c.RawSubject, cur.RawIssuer) && !containsCert(chain, c) {
				next = c
				break
			}
		}

		if next == nil {
			break
		}

		chain = append(chain, next)
		cur = next
	}

	return chain
}

func containsCert(chain []*x509.Certificate, c *x509.Certificate) bool {
	for _, x := range chain {
		if x.Equal(c) {
			return true
		}
	}

	return false
}

// Len returns the number of entries.
func (ks *Keystore) Len() int {
	return len(ks.entries)
}

// Aliases returns the entry aliases in file order.
func (ks *Keystore) Aliases() []string {
	aliases := make([]string, 0, len(ks.entries))
	for _, e := range ks.entries {
		aliases = append(aliases, e.Alias)
	}

	return aliases
}

// ContainsAlias reports whether an entry with the given alias exists.
// Aliases compare case-insensitively.
func (ks *Keystore) ContainsAlias(alias string) bool {
	_, ok := ks.Entry(alias)
	return ok
}

// Entry returns the entry with the given alias.
func (ks *Keystore) Entry(alias string) (*Entry, bool) {
	for _, e := range ks.entries {
		if strings.EqualFold(e.Alias, alias) {
			return e, true
		}
	}

	return nil, false
}

// Certificates returns every certificate in the file, paired or not.
func (ks *Keystore) Certificates() []*x509.Certificate {
	return append([]*x509.Certificate(nil), ks.certs...)
}

// ResolveKeyAlias picks the private key entry to use. A non-blank
// configured alias must name a key entry. Without one the keystore must
// hold exactly one key entry.
func (ks *Keystore) ResolveKeyAlias(configured string) (*Entry, error) {
	if alias := strings.TrimSpace(configured); alias != "" {
		e, ok := ks.Entry(alias)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrAliasNotFound, alias)
		}

		if !e.IsKeyEntry() {
			return nil, fmt.Errorf("%w: %s", ErrNoPrivateKey, alias)
		}

		return e, nil
	}

	var found *Entry

	for _, e := range ks.entries {
		if !e.IsKeyEntry() {
			continue
		}

		if found != nil {
			return nil, fmt.Errorf("%w: %s, %s", ErrAmbiguousAlias, found.Alias, e.Alias)
		}

		found = e
	}

	if found == nil {
		return nil, ErrNoPrivateKey
	}

	return found, nil
}

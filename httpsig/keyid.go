package httpsig

import (
	"crypto/x509"
	"encoding/asn1"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"
	"unicode/utf16"
)

// KeyID returns the keyId parameter for a QSeal certificate:
// "SN=<serial in lower-case hex>,CA=<issuer DN>". The issuer is rendered
// from the raw certificate bytes as an RFC 2253 string, most specific RDN
// first, the way gateways rebuild it from tpp-signature-certificate.
func KeyID(cert *x509.Certificate) (string, error) {
	if cert == nil || cert.SerialNumber == nil {
		return "", fmt.Errorf("%w: certificate must not be nil", ErrInvalidKey)
	}

	raw := cert.RawIssuer
	if len(raw) == 0 {
		var err error

		raw, err = asn1.Marshal(cert.Issuer.ToRDNSequence())
		if err != nil {
			return "", fmt.Errorf("%w: cannot encode certificate issuer: %w", ErrInvalidKey, err)
		}
	}

	issuer, err := formatDistinguishedName(raw)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("SN=%s,CA=%s", cert.SerialNumber.Text(16), issuer), nil
}

type attributeTypeAndValue struct {
	Type  asn1.ObjectIdentifier
	Value asn1.RawValue
}

// The SET suffix makes encoding/asn1 decode it as a SET OF.
type rdnSET []attributeTypeAndValue

// Only these attribute types get a keyword; RFC 2253 section 2.3 writes
// every other type as a dotted OID.
var rfc2253Keywords = map[string]string{
	"2.5.4.3":                    "CN",
	"2.5.4.6":                    "C",
	"2.5.4.7":                    "L",
	"2.5.4.8":                    "ST",
	"2.5.4.9":                    "STREET",
	"2.5.4.10":                   "O",
	"2.5.4.11":                   "OU",
	"0.9.2342.19200300.100.1.1":  "UID",
	"0.9.2342.19200300.100.1.25": "DC",
}

func formatDistinguishedName(raw []byte) (string, error) {
	var seq []rdnSET

	rest, err := asn1.Unmarshal(raw, &seq)
	if err != nil || len(rest) > 0 {
		return "", fmt.Errorf("%w: cannot parse certificate issuer", ErrInvalidKey)
	}

	var sb strings.Builder

	for i := len(seq) - 1; i >= 0; i-- {
		if i != len(seq)-1 {
			sb.WriteByte(',')
		}

		for j, atv := range seq[i] {
			if j > 0 {
				sb.WriteByte('+')
			}

			sb.WriteString(formatAttribute(atv))
		}
	}

	return sb.String(), nil
}

func formatAttribute(atv attributeTypeAndValue) string {
	if keyword, ok := rfc2253Keywords[atv.Type.String()]; ok {
		if s, ok := decodeDirectoryString(atv.Value); ok {
			return keyword + "=" + escapeAttributeValue(s)
		}
	}

	return atv.Type.String() + "=#" + hex.EncodeToString(atv.Value.FullBytes)
}

func decodeDirectoryString(v asn1.RawValue) (string, bool) {
	if v.Class != asn1.ClassUniversal {
		return "", false
	}

	switch v.Tag {
	case asn1.TagUTF8String, asn1.TagPrintableString, asn1.TagT61String,
		asn1.TagIA5String, asn1.TagGeneralString:
		return string(v.Bytes), true

	case asn1.TagBMPString:
		if len(v.Bytes)%2 != 0 {
			return "", false
		}

		units := make([]uint16, 0, len(v.Bytes)/2)
		for i := 0; i < len(v.Bytes); i += 2 {
			units = append(units, binary.BigEndian.Uint16(v.Bytes[i:]))
		}

		return string(utf16.Decode(units)), true

	case tagUniversalString:
		if len(v.Bytes)%4 != 0 {
			return "", false
		}

		runes := make([]rune, 0, len(v.Bytes)/4)
		for i := 0; i < len(v.Bytes); i += 4 {
			runes = append(runes, rune(binary.BigEndian.Uint32(v.Bytes[i:])))
		}

		return string(runes), true
	}

	return "", false
}

const tagUniversalString = 28

// escapeAttributeValue applies the RFC 2253 section 2.4 escaping rules.
func escapeAttributeValue(s string) string {
	var sb strings.Builder

	last := len(s) - 1

	for i, r := range s {
		switch {
		case strings.ContainsRune(`,+"\<>;`, r):
			sb.WriteByte('\\')
			sb.WriteRune(r)
		case r == 0:
			sb.WriteString(`\00`)
		case i == 0 && (r == ' ' || r == '#'):
			sb.WriteByte('\\')
			sb.WriteRune(r)
		case i == last && r == ' ':
			sb.WriteString(`\ `)
		default:
			sb.WriteRune(r)
		}
	}

	return sb.String()
}

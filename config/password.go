package config

const maskedPassword = "*************"

// Password is a secret configuration value. It is masked whenever it is
// marshalled or printed.
type Password string

// MarshalText always returns the mask, never the secret.
func (p Password) MarshalText() ([]byte, error) {
	return []byte(maskedPassword), nil
}

// UnmarshalText stores text verbatim.
func (p *Password) UnmarshalText(text []byte) error {
	*p = Password(text)
	return nil
}

// String returns the mask.
func (p Password) String() string {
	return maskedPassword
}

// Package credential packages the opaque blob a holder stores after
// issuance: the issuer identity, one secret scalar per attribute and the
// ring each secret belongs to. The credential engine never sees this blob;
// its structure is a contract between the issuance relay and the holder
// wallet.
package credential

import (
	"encoding/json"
	"fmt"
)

// Credential is the holder-side bundle for one issuance. Secrets are hex
// scalars; rings are hex 96-byte G1 points in ring order. The holder needs
// the ring order to know its own signer index.
type Credential struct {
	IssuerID string              `json:"issuer_id"`
	Secrets  map[string]string   `json:"secrets"`
	Rings    map[string][]string `json:"rings"`
}

// Marshal encodes the credential as JSON.
func (c *Credential) Marshal() ([]byte, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal credential: %w", err)
	}
	return data, nil
}

// Unmarshal decodes a credential produced by Marshal.
func Unmarshal(data []byte) (*Credential, error) {
	var c Credential
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal credential: %w", err)
	}
	return &c, nil
}

// SignerIndex returns the position of the given public key (hex) in the
// credential's ring for the attribute, or -1 when absent.
func (c *Credential) SignerIndex(attribute, publicKeyHex string) int {
	for i, member := range c.Rings[attribute] {
		if member == publicKeyHex {
			return i
		}
	}
	return -1
}

package keygen

import (
	"encoding/hex"
	"encoding/json"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/attestra/go-anoncred-infra/internal/anoncred/group"
	"github.com/attestra/go-anoncred-infra/internal/anoncred/keys"
	"github.com/attestra/go-anoncred-infra/internal/anoncred/ringsig"
)

func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Offline key and proof tools for credential holders",
	}

	cmd.AddCommand(newGenCmd())
	cmd.AddCommand(newSignCmd())
	cmd.AddCommand(newVerifyCmd())
	return cmd
}

type keyPairJSON struct {
	Secret string `json:"secret"`
	Public string `json:"public"`
}

func newGenCmd() *cobra.Command {
	var count int
	var outFile string

	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Generate fresh key pairs",
		Run: func(cmd *cobra.Command, args []string) {
			if err := generateKeys(count, outFile); err != nil {
				log.Fatal().Err(err).Msg("Failed to generate keys")
			}
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 1, "Number of key pairs to generate")
	cmd.Flags().StringVarP(&outFile, "out", "o", "", "Output file (default stdout)")

	return cmd
}

func generateKeys(count int, outFile string) error {
	pairs, err := keys.NewGenerator().GenerateKeys(count)
	if err != nil {
		return err
	}
	out := make([]keyPairJSON, len(pairs))
	for i, pair := range pairs {
		out[i] = keyPairJSON{
			Secret: hex.EncodeToString(pair.Secret.Bytes()),
			Public: hex.EncodeToString(pair.Public.Bytes()),
		}
		pair.Zeroize()
	}

	encoded, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	encoded = append(encoded, '\n')

	if outFile == "" {
		_, err = os.Stdout.Write(encoded)
		return err
	}
	return os.WriteFile(outFile, encoded, 0600)
}

func newSignCmd() *cobra.Command {
	var secretHex string
	var ringFile string
	var message string

	cmd := &cobra.Command{
		Use:   "sign",
		Short: "Produce a ring signature over a message",
		Run: func(cmd *cobra.Command, args []string) {
			if err := signMessage(secretHex, ringFile, message); err != nil {
				log.Fatal().Err(err).Msg("Failed to sign")
			}
		},
	}

	cmd.Flags().StringVarP(&secretHex, "secret", "s", "", "Hex-encoded secret scalar")
	cmd.Flags().StringVarP(&ringFile, "ring", "r", "", "File with hex-encoded ring members, one per line")
	cmd.Flags().StringVarP(&message, "message", "m", "", "Message to sign")
	cmd.MarkFlagRequired("secret")
	cmd.MarkFlagRequired("ring")
	cmd.MarkFlagRequired("message")

	return cmd
}

func signMessage(secretHex, ringFile, message string) error {
	secretBytes, err := hex.DecodeString(secretHex)
	if err != nil {
		return err
	}
	secret, err := group.ScalarFromBytes(secretBytes)
	if err != nil {
		return err
	}
	defer secret.Zeroize()

	ring, err := loadRing(ringFile)
	if err != nil {
		return err
	}

	// Locate the signer inside the ring by deriving the public key.
	public := group.ScalarBaseMul(secret)
	signerIndex := -1
	for i, member := range ring {
		if member.Equal(public) {
			signerIndex = i
			break
		}
	}

	sig, err := ringsig.Sign([]byte(message), ring, signerIndex, secret)
	if err != nil {
		return err
	}
	encoded, err := sig.Marshal()
	if err != nil {
		return err
	}

	log.Info().Int("ring_size", len(ring)).Msg("Signature created")
	os.Stdout.WriteString(hex.EncodeToString(encoded) + "\n")
	return nil
}

func newVerifyCmd() *cobra.Command {
	var sigHex string
	var ringFile string
	var message string

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify a ring signature against a ring",
		Run: func(cmd *cobra.Command, args []string) {
			ok, err := verifySignature(sigHex, ringFile, message)
			if err != nil {
				log.Fatal().Err(err).Msg("Failed to verify")
			}
			if !ok {
				log.Error().Msg("Signature INVALID")
				os.Exit(1)
			}
			log.Info().Msg("Signature valid")
		},
	}

	cmd.Flags().StringVarP(&sigHex, "signature", "s", "", "Hex-encoded signature")
	cmd.Flags().StringVarP(&ringFile, "ring", "r", "", "File with hex-encoded ring members, one per line")
	cmd.Flags().StringVarP(&message, "message", "m", "", "Signed message")
	cmd.MarkFlagRequired("signature")
	cmd.MarkFlagRequired("ring")
	cmd.MarkFlagRequired("message")

	return cmd
}

func verifySignature(sigHex, ringFile, message string) (bool, error) {
	sigBytes, err := hex.DecodeString(sigHex)
	if err != nil {
		return false, err
	}
	sig, err := ringsig.Unmarshal(sigBytes)
	if err != nil {
		return false, err
	}
	ring, err := loadRing(ringFile)
	if err != nil {
		return false, err
	}
	return ringsig.Verify([]byte(message), sig, ring), nil
}

func loadRing(path string) ([]*group.Point, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var ring []*group.Point
	for _, line := range strings.Split(string(raw), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		b, err := hex.DecodeString(line)
		if err != nil {
			return nil, err
		}
		p, err := group.PointFromBytes(b)
		if err != nil {
			return nil, err
		}
		ring = append(ring, p)
	}
	return ring, nil
}

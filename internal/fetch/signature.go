package fetch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/ProtonMail/go-crypto/openpgp" //nolint:staticcheck // Using ProtonMail's maintained fork
)

// SignatureSuffix is appended to a package URL to locate its detached
// signature.
const SignatureSuffix = ".asc"

// maxSignatureSize bounds how much of a signature response is read.
const maxSignatureSize = 1 << 20

// SignatureVerifier checks detached GPG signatures published alongside
// release packages at "<package-url>.asc". It only runs when a keyring
// is configured; digest verification remains the gate either way.
type SignatureVerifier struct {
	keyringPath string
	client      HTTPClient
	userAgent   string
}

// NewSignatureVerifier creates a verifier trusting the keys in the
// keyring file at keyringPath. The client fetches signature sidecars.
func NewSignatureVerifier(keyringPath string, client HTTPClient) *SignatureVerifier {
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	return &SignatureVerifier{
		keyringPath: keyringPath,
		client:      client,
		userAgent:   DefaultUserAgent,
	}
}

// VerifyDetached fetches the detached signature for pkgURL and checks it
// against the payload at packagePath.
func (v *SignatureVerifier) VerifyDetached(ctx context.Context, packagePath, pkgURL string) error {
	keyring, err := v.loadKeyring()
	if err != nil {
		return fmt.Errorf("load keyring: %w", err)
	}

	sig, err := v.fetchSignature(ctx, pkgURL+SignatureSuffix)
	if err != nil {
		return err
	}

	pkgFile, err := os.Open(packagePath)
	if err != nil {
		return fmt.Errorf("open package: %w", err)
	}
	defer pkgFile.Close()

	// Try armored first, then binary.
	_, err = openpgp.CheckArmoredDetachedSignature(keyring, pkgFile, bytes.NewReader(sig), nil)
	if err != nil {
		if _, serr := pkgFile.Seek(0, io.SeekStart); serr != nil {
			return fmt.Errorf("rewind package: %w", serr)
		}
		_, err = openpgp.CheckDetachedSignature(keyring, pkgFile, bytes.NewReader(sig), nil)
	}
	if err != nil {
		return fmt.Errorf("signature check for %s: %w", pkgURL, err)
	}

	return nil
}

// loadKeyring reads the trusted keyring, accepting armored or binary
// form.
func (v *SignatureVerifier) loadKeyring() (openpgp.EntityList, error) {
	keyringFile, err := os.Open(v.keyringPath)
	if err != nil {
		return nil, fmt.Errorf("open keyring: %w", err)
	}
	defer keyringFile.Close()

	keyring, err := openpgp.ReadArmoredKeyRing(keyringFile)
	if err != nil {
		if _, serr := keyringFile.Seek(0, io.SeekStart); serr != nil {
			return nil, fmt.Errorf("rewind keyring: %w", serr)
		}
		keyring, err = openpgp.ReadKeyRing(keyringFile)
		if err != nil {
			return nil, fmt.Errorf("read keyring: %w", err)
		}
	}

	if len(keyring) == 0 {
		return nil, fmt.Errorf("keyring is empty")
	}

	return keyring, nil
}

func (v *SignatureVerifier) fetchSignature(ctx context.Context, sigURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sigURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build signature request: %w", err)
	}
	req.Header.Set("User-Agent", v.userAgent)

	resp, err := v.client.Do(req)
	if err != nil {
		return nil, &NetworkError{URL: sigURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("signature not published at %s: status %s", sigURL, resp.Status)
	}

	sig, err := io.ReadAll(io.LimitReader(resp.Body, maxSignatureSize))
	if err != nil {
		return nil, &NetworkError{URL: sigURL, Err: err}
	}
	return sig, nil
}

package persist

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// Obfuscate hides plain text from casual inspection. It is a reversible
// base64 encoding and provides no confidentiality.
func Obfuscate(plain []byte) string {
	return base64.StdEncoding.EncodeToString(plain)
}

func Deobfuscate(value string) ([]byte, error) {
	out, err := base64.StdEncoding.DecodeString(strings.TrimSpace(value))
	if err != nil {
		return nil, fmt.Errorf("persist: deobfuscate: %w", err)
	}
	return out, nil
}

package content

import (
	"encoding/base64"
	"fmt"
	"io"

	"github.com/shohruz/portfolio-backend-go/pkg/errors"
)

// EncodeImage reads an uploaded image and returns it as a data URI. The
// encoded string is stored directly as the image value; there is no separate
// object-storage upload step.
func EncodeImage(r io.Reader, contentType string, maxBytes int64) (string, error) {
	if contentType == "" {
		contentType = "image/png"
	}

	data, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return "", errors.NewValidationError("failed to read image", "image", err.Error())
	}
	if len(data) == 0 {
		return "", errors.NewValidationError("image is empty", "image", nil)
	}
	if int64(len(data)) > maxBytes {
		return "", errors.NewValidationError(
			fmt.Sprintf("image exceeds %d bytes", maxBytes), "image", len(data))
	}

	return fmt.Sprintf("data:%s;base64,%s", contentType, base64.StdEncoding.EncodeToString(data)), nil
}

package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/sumire/civic/internal/domain"
)

const maxBodyBytes = 1 << 20

// decodeJSON reads a JSON body into v.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	return nil
}

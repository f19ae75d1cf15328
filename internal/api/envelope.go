package api

import (
	"strconv"

	"github.com/danielgtaylor/huma/v2"

	"github.com/levelupapp/levelup-server/internal/http/response"
)

// EnvelopeVersion is sent as "v" in every response body.
const EnvelopeVersion = response.Version

// EnvelopeTransformer wraps huma response bodies in the standard envelope.
// Coded errors keep their code and details; plain errors collapse to a message.
func EnvelopeTransformer(_ huma.Context, status string, v any) (any, error) {
	switch body := v.(type) {
	case *APIError:
		if body.Code == "" {
			return response.Envelope{Version: EnvelopeVersion, Error: body.Message}, nil
		}
		return response.ErrorEnvelope{
			Version: EnvelopeVersion,
			Error:   body.Message,
			Code:    body.Code,
			Message: body.Message,
			Details: body.Details,
		}, nil
	case error:
		return response.Envelope{Version: EnvelopeVersion, Error: body.Error()}, nil
	}

	code, err := strconv.Atoi(status)
	return response.Envelope{
		Version: EnvelopeVersion,
		Success: err != nil || code < 400,
		Data:    v,
	}, nil
}

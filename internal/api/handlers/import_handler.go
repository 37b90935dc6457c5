package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/zatekoja/volunteerconnect/backend/internal/application/services"
	"github.com/zatekoja/volunteerconnect/backend/internal/domain/entities"
	"github.com/zatekoja/volunteerconnect/backend/internal/domain/providers"
	"github.com/zatekoja/volunteerconnect/backend/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/volunteerconnect/backend/pkg/errors"
)

const idempotencyKeyPrefix = "idempotency:import-hospitals:"

// HospitalImporter runs one hospital import.
type HospitalImporter interface {
	Import(ctx context.Context, req services.ImportRequest) (*entities.ImportOutcome, error)
}

// HospitalImportHandler triggers hospital imports over HTTP.
type HospitalImportHandler struct {
	importer       HospitalImporter
	cache          providers.CacheProvider
	idempotencyTTL time.Duration
	defaultLimit   int
	configErr      error
}

// NewHospitalImportHandler creates the import handler. cache may be nil, in
// which case Idempotency-Key headers are ignored.
func NewHospitalImportHandler(importer HospitalImporter, cache providers.CacheProvider, defaultLimit int, idempotencyTTL time.Duration) *HospitalImportHandler {
	if idempotencyTTL <= 0 {
		idempotencyTTL = 24 * time.Hour
	}
	if defaultLimit <= 0 {
		defaultLimit = 100
	}
	return &HospitalImportHandler{
		importer:       importer,
		cache:          cache,
		idempotencyTTL: idempotencyTTL,
		defaultLimit:   defaultLimit,
	}
}

// NewMisconfiguredImportHandler answers every import with err. It is wired
// when the service started without the credentials an import needs.
func NewMisconfiguredImportHandler(err error) *HospitalImportHandler {
	return &HospitalImportHandler{configErr: apperrors.NewConfigurationError("import not configured", err)}
}

type importRequestBody struct {
	Limit  *int    `json:"limit"`
	State  *string `json:"state"`
	Offset *int    `json:"offset"`
}

type importResponse struct {
	Success  bool   `json:"success"`
	Imported int    `json:"imported"`
	Skipped  int    `json:"skipped"`
	Failed   *int   `json:"failed,omitempty"`
	Total    *int   `json:"total,omitempty"`
	Message  string `json:"message"`
}

type importErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// ImportHospitals handles POST /api/import/hospitals
func (h *HospitalImportHandler) ImportHospitals(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerFromContext(ctx)

	if h.configErr != nil {
		logger.Error().Err(h.configErr).Msg("hospital import rejected")
		respondImportError(w, h.configErr)
		return
	}

	req, err := h.decodeRequest(r)
	if err != nil {
		respondImportError(w, err)
		return
	}

	var reservedKey string
	if key := idempotencyKey(r); key != "" && h.cache != nil {
		stored, err := h.cache.SetNX(ctx, idempotencyKeyPrefix+key, []byte(time.Now().UTC().Format(time.RFC3339)), int(h.idempotencyTTL.Seconds()))
		switch {
		case err != nil:
			logger.Warn().Err(err).Msg("idempotency check unavailable, continuing")
		case !stored:
			respondImportError(w, apperrors.NewConflictError("duplicate import request for idempotency key "+key))
			return
		default:
			reservedKey = idempotencyKeyPrefix + key
		}
	}

	outcome, err := h.importer.Import(ctx, req)
	if err != nil {
		logger.Error().Err(err).Msg("hospital import failed")
		// Nothing was committed, so the same key may retry.
		if reservedKey != "" && outcome == nil {
			if delErr := h.cache.Delete(context.WithoutCancel(ctx), reservedKey); delErr != nil {
				logger.Warn().Err(delErr).Msg("failed to release idempotency key")
			}
		}
		respondImportError(w, err)
		return
	}

	resp := importResponse{
		Success:  true,
		Imported: outcome.Imported,
		Skipped:  outcome.Skipped,
		Message:  outcome.Message,
	}
	if !outcome.Empty {
		failed, total := outcome.Failed, outcome.Total
		resp.Failed = &failed
		resp.Total = &total
	}
	respondWithJSON(w, http.StatusOK, resp)
}

// decodeRequest reads the optional JSON body. Absent fields and an empty
// body take the defaults; a null state means every state.
func (h *HospitalImportHandler) decodeRequest(r *http.Request) (services.ImportRequest, error) {
	req := services.ImportRequest{Limit: h.defaultLimit}

	var body importRequestBody
	if r.Body != nil {
		err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&body)
		if err != nil && !errors.Is(err, io.EOF) {
			return req, apperrors.NewValidationError("invalid request body: " + err.Error())
		}
	}

	if body.Limit != nil {
		req.Limit = *body.Limit
	}
	if body.Offset != nil {
		req.Offset = *body.Offset
	}
	if body.State != nil {
		req.State = *body.State
	}

	if req.Limit < 0 {
		return req, apperrors.NewValidationError("limit must not be negative")
	}
	if req.Offset < 0 {
		return req, apperrors.NewValidationError("offset must not be negative")
	}
	return req, nil
}

func idempotencyKey(r *http.Request) string {
	key := strings.TrimSpace(r.Header.Get("Idempotency-Key"))
	if key == "" {
		key = strings.TrimSpace(r.Header.Get("X-Idempotency-Key"))
	}
	return key
}

func respondImportError(w http.ResponseWriter, err error) {
	respondWithJSON(w, apperrors.HTTPStatus(err), importErrorResponse{Success: false, Error: err.Error()})
}

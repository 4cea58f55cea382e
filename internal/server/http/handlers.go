package httpserver

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/ciadlab/publication-service/internal/domain"
	"github.com/ciadlab/publication-service/internal/observability"
	"github.com/ciadlab/publication-service/internal/repository"
	"github.com/ciadlab/publication-service/internal/similarity"
)

// Pagination and validation constants.
const (
	defaultPageSize    = 50
	maxPageSize        = 100
	maxRequestBodySize = 1 << 20 // 1 MB limit for request bodies
)

// checkPublication handles POST /api/v1/publications/check.
// It fetches the coarse candidate set, classifies the candidate publication
// against it, and returns the creation status without storing anything.
func (s *Server) checkPublication(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req checkPublicationRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	candidate, err := req.toDomain()
	if err != nil {
		writeDomainError(w, err)
		return
	}

	start := time.Now()
	existing, err := s.pubRepo.FindBySimilarTitle(ctx, candidate.Title, s.candidateLimit)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	cls := s.classifier.ComputeCreationStatus(candidate, candidate.HasAbstract(), existing)

	if s.metrics != nil {
		s.metrics.RecordCheck(string(cls.Status), cls.CandidatesChecked, time.Since(start).Seconds())
	}

	logger := observability.WithCheckContext(s.logger, string(cls.Status), cls.CandidatesChecked)
	logger.Info().Str("title", candidate.Title).Msg("duplicate check completed")

	writeJSON(w, http.StatusOK, classificationToResponse(cls.Status, cls.MatchedWith, cls.CandidatesChecked))
}

// computeSimilarity handles GET /api/v1/similarity?a=...&b=...
// It returns the raw title similarity score for diagnostics and UI hints.
func (s *Server) computeSimilarity(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	if !query.Has("a") || !query.Has("b") {
		writeError(w, http.StatusBadRequest, "query parameters a and b are required")
		return
	}

	score := s.classifier.Comparator().TitleSimilarity(query.Get("a"), query.Get("b"))
	if s.metrics != nil {
		s.metrics.RecordSimilarityComputation()
	}

	writeJSON(w, http.StatusOK, similarityResponse{Score: score})
}

// createPublication handles POST /api/v1/publications.
// It runs the duplicate check and the insert inside one serializable
// transaction, refusing exact duplicates unless force=true.
func (s *Server) createPublication(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	force := r.URL.Query().Get("force") == "true"

	var req createPublicationRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	pub, err := req.toDomain()
	if err != nil {
		writeDomainError(w, err)
		return
	}

	var (
		created *domain.Publication
		cls     similarity.Classification
	)

	start := time.Now()
	err = s.inSerializableTx(ctx, func(repo repository.PublicationRepository) error {
		existing, txErr := repo.FindBySimilarTitle(ctx, pub.Title, s.candidateLimit)
		if txErr != nil {
			return txErr
		}

		cls = s.classifier.ComputeCreationStatus(pub, pub.HasAbstract(), existing)
		if cls.Status.IsDuplicate() && !force {
			return domain.NewDuplicateError(cls.MatchedWith.String(), cls.Status)
		}

		created, txErr = repo.Create(ctx, pub)
		return txErr
	})

	if s.metrics != nil && cls.Status != "" {
		s.metrics.RecordCheck(string(cls.Status), cls.CandidatesChecked, time.Since(start).Seconds())
	}

	if err != nil {
		if s.metrics != nil && errors.Is(err, domain.ErrDuplicate) {
			s.metrics.RecordPublicationRejected()
		}
		writeDomainError(w, err)
		return
	}

	if s.metrics != nil {
		s.metrics.RecordPublicationCreated()
	}

	logger := observability.WithPublicationContext(s.logger, created.ID.String(), created.Title)
	logger.Info().Str("status", string(cls.Status)).Bool("force", force).Msg("publication created")

	writeJSON(w, http.StatusCreated, domainPublicationToResponse(created))
}

// getPublication handles GET /api/v1/publications/{publicationID}.
func (s *Server) getPublication(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := parseUUID(w, chi.URLParam(r, "publicationID"), "publication_id")
	if !ok {
		return
	}

	pub, err := s.pubRepo.GetByID(ctx, id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, domainPublicationToResponse(pub))
}

// listPublications handles GET /api/v1/publications.
// It returns a paginated list with optional type, year, and venue_id filters.
func (s *Server) listPublications(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit, offset := parsePaginationParams(r)

	filter := repository.PublicationFilter{
		Limit:  limit,
		Offset: offset,
	}

	if typeParam := r.URL.Query().Get("type"); typeParam != "" {
		pubType := domain.PublicationType(typeParam)
		filter.Type = &pubType
	}

	if yearParam := r.URL.Query().Get("year"); yearParam != "" {
		year, err := strconv.Atoi(yearParam)
		if err != nil {
			writeError(w, http.StatusBadRequest, "year must be an integer")
			return
		}
		filter.Year = &year
	}

	if venueParam := r.URL.Query().Get("venue_id"); venueParam != "" {
		venueID, ok := parseUUID(w, venueParam, "venue_id")
		if !ok {
			return
		}
		filter.VenueID = &venueID
	}

	pubs, totalCount, err := s.pubRepo.List(ctx, filter)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	responses := make([]publicationResponse, len(pubs))
	for i, p := range pubs {
		responses[i] = domainPublicationToResponse(p)
	}

	writeJSON(w, http.StatusOK, listPublicationsResponse{
		Publications:  responses,
		NextPageToken: encodePageToken(offset, limit, int(totalCount)),
		TotalCount:    int(totalCount),
	})
}

// decodeAndValidate reads a bounded JSON request body into dst and runs the
// struct validator. It writes the error response and returns false on failure.
func (s *Server) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	defer r.Body.Close()
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBodySize))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return false
	}

	if err := json.Unmarshal(body, dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON request body")
		return false
	}

	if err := s.validate.Struct(dst); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return false
	}

	return true
}

// validationMessage flattens a validator error into a client-safe message.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Sprintf("field %s failed validation (%s)", fe.Field(), fe.Tag())
	}
	return "invalid request body"
}

// writeDomainError maps domain errors to appropriate HTTP status codes and
// writes a JSON error response. Internal error details are not leaked to clients.
func writeDomainError(w http.ResponseWriter, err error) {
	if err == nil {
		return
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "resource not found")
	case errors.Is(err, domain.ErrInvalidInput):
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			writeError(w, http.StatusBadRequest, ve.Error())
		} else {
			writeError(w, http.StatusBadRequest, "invalid input")
		}
	case errors.Is(err, domain.ErrDuplicate):
		var de *domain.DuplicateError
		if errors.As(err, &de) {
			writeJSON(w, http.StatusConflict, map[string]string{
				"error":        "publication is an exact duplicate",
				"duplicate_of": de.DuplicateOf,
				"status":       string(de.Status),
			})
		} else {
			writeError(w, http.StatusConflict, "publication is an exact duplicate")
		}
	case errors.Is(err, domain.ErrAlreadyExists):
		writeError(w, http.StatusConflict, "resource already exists")
	default:
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// parseUUID parses a UUID from a string, writing a 400 error response if invalid.
// The parse error details are not included to avoid echoing potentially malicious input.
func parseUUID(w http.ResponseWriter, s, fieldName string) (uuid.UUID, bool) {
	id, err := uuid.Parse(s)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("%s must be a valid UUID", fieldName))
		return uuid.Nil, false
	}
	return id, true
}

// parsePaginationParams extracts page_size and page_token from query parameters.
// It applies default and maximum bounds to the page size.
func parsePaginationParams(r *http.Request) (limit, offset int) {
	limit = defaultPageSize
	if pageSizeStr := r.URL.Query().Get("page_size"); pageSizeStr != "" {
		if parsed, err := strconv.Atoi(pageSizeStr); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	if pageToken := r.URL.Query().Get("page_token"); pageToken != "" {
		decoded, err := base64.StdEncoding.DecodeString(pageToken)
		if err == nil {
			if parsed, parseErr := strconv.Atoi(string(decoded)); parseErr == nil && parsed > 0 {
				offset = parsed
			}
		}
	}

	return limit, offset
}

// encodePageToken encodes the next offset as a base64 page token.
// Returns an empty string if there are no more results.
func encodePageToken(offset, limit, totalCount int) string {
	nextOffset := offset + limit
	if nextOffset < totalCount {
		return base64.StdEncoding.EncodeToString([]byte(strconv.Itoa(nextOffset)))
	}
	return ""
}

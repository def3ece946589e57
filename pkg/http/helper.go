package http

import (
	"net/http"
	"strconv"
	"time"

	"vinbook/pkg/config"
	apperrors "vinbook/pkg/errors"
	"vinbook/pkg/model"
)

const (
	HeaderActorEmail   = "X-Actor-Email"
	HeaderActorCompany = "X-Actor-Company"
	HeaderActorRole    = "X-Actor-Role"
)

// ExtractActor reads the acting identity from request headers. Identity is
// resolved by an upstream gateway; this service trusts the headers as given.
func ExtractActor(r *http.Request) (model.Actor, error) {
	actor := model.Actor{
		Email:   r.Header.Get(HeaderActorEmail),
		Company: r.Header.Get(HeaderActorCompany),
		Role:    model.Role(r.Header.Get(HeaderActorRole)),
	}

	if actor.Email == "" || actor.Company == "" {
		return model.Actor{}, apperrors.Unauthorized("Actor identity headers are required")
	}
	if actor.Role != model.RoleProducer && actor.Role != model.RoleProvider {
		return model.Actor{}, apperrors.Unauthorized("Actor role must be producer or provider")
	}

	return actor, nil
}

func ExtractLimitOffset(r *http.Request) (int, int64, error) {
	query := r.URL.Query()

	limit := 0
	if s := query.Get("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return 0, 0, apperrors.InvalidInput("invalid limit parameter: " + s)
		}
		limit = v
	}

	var offset int64 = 0
	if s := query.Get("offset"); s != "" {
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, 0, apperrors.InvalidInput("invalid offset parameter: " + s)
		}
		offset = v
	}

	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	return limit, offset, nil
}

// ExtractTime parses an optional RFC3339 query parameter. A missing parameter
// yields a nil time, not an error.
func ExtractTime(r *http.Request, param string) (*time.Time, error) {
	s := r.URL.Query().Get(param)
	if s == "" {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, apperrors.InvalidInput("invalid " + param + " format, must be RFC3339")
	}
	return &parsed, nil
}

// ExtractDay parses an optional YYYY-MM-DD query parameter.
func ExtractDay(r *http.Request, param string) (*time.Time, error) {
	s := r.URL.Query().Get(param)
	if s == "" {
		return nil, nil
	}
	parsed, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, apperrors.InvalidInput("invalid " + param + " format, must be YYYY-MM-DD")
	}
	return &parsed, nil
}

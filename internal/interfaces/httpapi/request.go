package httpapi

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/riskibarqy/coach-ledger/internal/usecase"
)

type listMatchesRequest struct {
	Page        int    `validate:"gte=0"`
	PageSize    int    `validate:"gte=0,lte=500"`
	Year        *int   `validate:"omitempty,gte=1900,lte=2100"`
	Competition string `validate:"max=200"`
}

type pagingRequest struct {
	Page     int `validate:"gte=0"`
	PageSize int `validate:"gte=0,lte=500"`
}

type statsRequest struct {
	GroupBy string `validate:"omitempty,oneof=all per_competition ALL PER_COMPETITION"`
	Year    *int   `validate:"omitempty,gte=1900,lte=2100"`
}

func bindListMatchesRequest(query url.Values) (listMatchesRequest, error) {
	paging, err := bindPagingRequest(query)
	if err != nil {
		return listMatchesRequest{}, err
	}
	year, err := optionalInt(query, "year")
	if err != nil {
		return listMatchesRequest{}, err
	}
	return listMatchesRequest{
		Page:        paging.Page,
		PageSize:    paging.PageSize,
		Year:        year,
		Competition: strings.TrimSpace(query.Get("competition")),
	}, nil
}

func bindPagingRequest(query url.Values) (pagingRequest, error) {
	page, err := intOrZero(query, "page")
	if err != nil {
		return pagingRequest{}, err
	}
	pageSize, err := intOrZero(query, "page_size")
	if err != nil {
		return pagingRequest{}, err
	}
	return pagingRequest{Page: page, PageSize: pageSize}, nil
}

func bindStatsRequest(query url.Values) (statsRequest, error) {
	year, err := optionalInt(query, "year")
	if err != nil {
		return statsRequest{}, err
	}
	return statsRequest{
		GroupBy: strings.TrimSpace(query.Get("group_by")),
		Year:    year,
	}, nil
}

func parseTenureID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: tenure id must be a positive integer, got %q", usecase.ErrInvalidInput, raw)
	}
	return id, nil
}

func intOrZero(query url.Values, key string) (int, error) {
	value, err := optionalInt(query, key)
	if err != nil || value == nil {
		return 0, err
	}
	return *value, nil
}

func optionalInt(query url.Values, key string) (*int, error) {
	raw := strings.TrimSpace(query.Get(key))
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be an integer, got %q", usecase.ErrInvalidInput, key, raw)
	}
	return &value, nil
}

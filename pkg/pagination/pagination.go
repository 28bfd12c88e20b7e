// Copyright (c) 2026 BCR. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pagination provides shared types and helpers for API list endpoints.
//
// # Overview
//
// Pages are requested with the "page" and "pageSize" query parameters and
// described in responses as {page, pageCount, pageSize, count}.
package pagination

import (
	"math"
	"net/http"
	"strconv"
)

const (
	// DefaultPageSize is the number of items per page if not specified.
	DefaultPageSize = 10
	// MaxPageSize is the upper bound for items per page.
	MaxPageSize = 100
	// DefaultPage is the starting page (1-indexed).
	DefaultPage = 1
	// MaxPage is the upper bound for the requested page.
	MaxPage = 1_000_000
)

// Params holds the parsed page and page size from a request's query string.
type Params struct {
	Page     int
	PageSize int
}

// Offset returns the SQL OFFSET value derived from Page and PageSize.
// It saturates at [math.MaxInt] instead of overflowing.
func (p Params) Offset() int {
	if p.Page <= 1 || p.PageSize <= 0 {
		return 0
	}
	if p.Page-1 > math.MaxInt/p.PageSize {
		return math.MaxInt
	}
	return (p.Page - 1) * p.PageSize
}

// Meta is the pagination metadata included in API list responses.
type Meta struct {
	Page      int   `json:"page"`
	PageCount int   `json:"pageCount"`
	PageSize  int   `json:"pageSize"`
	Count     int64 `json:"count"`
}

// NewMeta constructs pagination metadata; PageCount is ceil(count / pageSize).
func NewMeta(params Params, count int64) Meta {
	pageCount := 0
	if params.PageSize > 0 {
		size := int64(params.PageSize)
		pageCount = int((count + size - 1) / size)
	}

	return Meta{
		Page:      params.Page,
		PageCount: pageCount,
		PageSize:  params.PageSize,
		Count:     count,
	}
}

// FromRequest parses "page" and "pageSize" query parameters from an HTTP request.
//
// # Clamping
//
// Invalid or non-positive values fall back to [DefaultPage] and
// [DefaultPageSize]. Pages above [MaxPage] and sizes above [MaxPageSize]
// are capped.
func FromRequest(r *http.Request) Params {
	page := parseIntParam(r, "page", DefaultPage)
	pageSize := parseIntParam(r, "pageSize", DefaultPageSize)

	switch {
	case page < 1:
		page = DefaultPage
	case page > MaxPage:
		page = MaxPage
	}

	switch {
	case pageSize < 1:
		pageSize = DefaultPageSize
	case pageSize > MaxPageSize:
		pageSize = MaxPageSize
	}

	return Params{Page: page, PageSize: pageSize}
}

// parseIntParam parses a single integer query parameter with a fallback default.
func parseIntParam(r *http.Request, key string, defaultVal int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return defaultVal
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return defaultVal
	}

	return n
}

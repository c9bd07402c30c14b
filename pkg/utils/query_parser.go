package utils

import (
	"net/url"
	"strconv"
	"strings"

	"maintenance-system/pkg/types"
)

const (
	DefaultLimit = 200
	MaxLimit     = 500
)

// ParseFilterFromQuery разбирает limit/page/sort/search и произвольные
// filter[...]-параметры из query string.
func ParseFilterFromQuery(values url.Values) types.Filter {
	filterReq := types.Filter{
		Sort:   make(map[string]string),
		Filter: make(map[string]interface{}),
		Limit:  DefaultLimit,
		Page:   1,
	}

	if limitStr := values.Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			if l > MaxLimit {
				filterReq.Limit = MaxLimit
			} else {
				filterReq.Limit = l
			}
		}
	}

	if pageStr := values.Get("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			filterReq.Page = p
		}
	}

	if search := values.Get("search"); search != "" {
		filterReq.Search = search
	}

	// sort=field:asc,other:desc
	if sortStr := values.Get("sort"); sortStr != "" {
		for _, part := range strings.Split(sortStr, ",") {
			kv := strings.SplitN(part, ":", 2)
			if len(kv) == 2 && (kv[1] == "asc" || kv[1] == "desc") {
				filterReq.Sort[kv[0]] = kv[1]
			}
		}
	}

	// filter[status]=active
	for key, vals := range values {
		if strings.HasPrefix(key, "filter[") && strings.HasSuffix(key, "]") && len(vals) > 0 {
			field := key[len("filter[") : len(key)-1]
			if field != "" {
				filterReq.Filter[field] = vals[0]
			}
		}
	}

	return filterReq
}

// ParseUint64Slice конвертирует срез строк в срез uint64, молча
// пропуская пустые элементы.
func ParseUint64Slice(strs []string) ([]uint64, error) {
	ids := make([]uint64, 0, len(strs))
	for _, s := range strs {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		id, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

package cachekey

import (
	"crypto/sha1"
	"encoding/json"
	"fmt"
)

// ProductList keys a cached product page. filters is hashed so any filter shape works.
func ProductList(companyID int64, filters interface{}) (string, error) {
	data, err := json.Marshal(filters)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("products:list:%d:%x", companyID, sha1.Sum(data)), nil
}

func ProductListPattern(companyID int64) string {
	return fmt.Sprintf("products:list:%d:*", companyID)
}

func DashboardStats(companyID int64, scope string) string {
	return fmt.Sprintf("dashboard:stats:%d:%s", companyID, scope)
}

func DashboardPattern(companyID int64) string {
	return fmt.Sprintf("dashboard:*:%d:*", companyID)
}

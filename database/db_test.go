package database

import (
	"strings"
	"testing"

	"abena-car-sales/config"
)

func TestConnString(t *testing.T) {
	cfg := &config.Config{
		DBHost:     "db.internal",
		DBPort:     "5433",
		DBUser:     "sales",
		DBPassword: "s3cret",
		DBName:     "dealership",
	}

	got := ConnString(cfg)
	for _, want := range []string{
		"host=db.internal", "port=5433", "user=sales",
		"password=s3cret", "dbname=dealership", "sslmode=disable",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("ConnString() = %q, missing %q", got, want)
		}
	}
}

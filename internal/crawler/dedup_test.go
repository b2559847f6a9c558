package crawler

import (
	"reflect"
	"testing"

	"github.com/law-makers/scrape/pkg/models"
)

func TestDedupe(t *testing.T) {
	in := []models.Record{
		{URL: "https://a.test", Content: "x"},
		{URL: "https://b.test", Content: "y"},
		{URL: "https://c.test", Content: "x", Attributes: "ignored"},
		{URL: "https://a.test", Content: "z"},
	}
	want := []models.Record{
		{URL: "https://a.test", Content: "x"},
		{URL: "https://b.test", Content: "y"},
		{URL: "https://a.test", Content: "z"},
	}

	got := Dedupe(in)
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Dedupe = %+v\nwant %+v", got, want)
	}
	if again := Dedupe(got); !reflect.DeepEqual(again, got) {
		t.Errorf("Dedupe is not idempotent: %+v", again)
	}
	if len(Dedupe(nil)) != 0 {
		t.Error("expected empty output for nil input")
	}
}

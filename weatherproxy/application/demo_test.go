package application

import (
	"testing"
	"time"

	"weather-gateway/weatherproxy/domain"
)

func TestDemoPayload_ShapeAndTiming(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

	p := DemoPayload("Paris", now)

	if p["rateLimited"] != true || p["cached"] != false {
		t.Fatalf("expected rateLimited=true cached=false, got %v / %v", p["rateLimited"], p["cached"])
	}

	loc := p["location"].(domain.Payload)
	if loc["name"] != "Paris" {
		t.Fatalf("expected location name echoed, got %v", loc["name"])
	}
	if loc["localtime"] != "2026-03-14 09:30" {
		t.Fatalf("expected localtime from server clock, got %v", loc["localtime"])
	}

	cur := p["current"].(domain.Payload)
	if cur["is_day"] != 1 {
		t.Fatalf("expected is_day=1 at 09:30, got %v", cur["is_day"])
	}
	if _, ok := cur["condition"].(domain.Payload); !ok {
		t.Fatalf("expected condition object, got %v", cur["condition"])
	}

	days := p["forecast"].(domain.Payload)["forecastday"].([]any)
	if len(days) != 3 {
		t.Fatalf("expected 3 forecast days, got %d", len(days))
	}
	first := days[0].(domain.Payload)
	if first["date"] != "2026-03-14" {
		t.Fatalf("expected first day today, got %v", first["date"])
	}
	last := days[2].(domain.Payload)
	if last["date"] != "2026-03-16" {
		t.Fatalf("expected consecutive dates, got %v", last["date"])
	}
}

func TestDemoPayload_EmptyLocationGetsPlaceholder(t *testing.T) {
	p := DemoPayload("", time.Date(2026, 3, 14, 23, 0, 0, 0, time.UTC))

	loc := p["location"].(domain.Payload)
	if loc["name"] != "Demo City" {
		t.Fatalf("expected placeholder name, got %v", loc["name"])
	}
	if p["current"].(domain.Payload)["is_day"] != 0 {
		t.Fatalf("expected is_day=0 at 23:00")
	}
}

package notifications

import (
	"fmt"
	"strings"
	"testing"
)

func TestNewCenter_SeedsPermanentDisclaimers(t *testing.T) {
	c := NewCenter()

	items := c.List()
	if len(items) != 2 {
		t.Fatalf("expected 2 seeded disclaimers, got %d", len(items))
	}
	for _, it := range items {
		if !it.Permanent {
			t.Fatalf("seeded notification %s must be permanent", it.ID)
		}
		if it.Read {
			t.Fatalf("seeded notification %s must start unread", it.ID)
		}
	}
	if !strings.Contains(items[0].Message, "Döviz") {
		t.Fatalf("unexpected currency disclaimer: %s", items[0].Message)
	}
	if !strings.Contains(items[1].Message, "Altın") {
		t.Fatalf("unexpected gold disclaimer: %s", items[1].Message)
	}
}

func TestAdd_PrependsNewestFirst(t *testing.T) {
	c := NewCenter()

	c.Add("first")
	c.Add("second")

	items := c.List()
	if items[0].Message != "second" || items[1].Message != "first" {
		t.Fatalf("expected newest first, got %s then %s", items[0].Message, items[1].Message)
	}
	if items[0].ID == items[1].ID {
		t.Fatal("notification IDs must be unique")
	}
}

func TestAdd_CapKeepsPermanents(t *testing.T) {
	c := NewCenter()

	for i := 0; i < 30; i++ {
		c.Add(fmt.Sprintf("alert %d", i))
	}

	items := c.List()
	permanents := 0
	for _, it := range items {
		if it.Permanent {
			permanents++
		}
	}
	if permanents != 2 {
		t.Fatalf("permanent disclaimers must survive trimming, got %d", permanents)
	}
	if len(items) > maxNotifications+2 {
		t.Fatalf("list grew past cap: %d", len(items))
	}
	if items[0].Message != "alert 29" {
		t.Fatalf("newest entry must survive trimming, got %s", items[0].Message)
	}
}

func TestMarkRead(t *testing.T) {
	c := NewCenter()
	n := c.Add("USD moved")

	if c.UnreadCount() != 3 {
		t.Fatalf("expected 3 unread, got %d", c.UnreadCount())
	}
	if !c.MarkRead(n.ID) {
		t.Fatal("known ID must be marked")
	}
	if c.UnreadCount() != 2 {
		t.Fatalf("expected 2 unread after mark, got %d", c.UnreadCount())
	}
	if c.MarkRead("no-such-id") {
		t.Fatal("unknown ID must be ignored")
	}
}

func TestClearAll_KeepsPermanents(t *testing.T) {
	c := NewCenter()
	c.Add("one")
	c.Add("two")

	c.ClearAll()

	items := c.List()
	if len(items) != 2 {
		t.Fatalf("expected only disclaimers after clear, got %d", len(items))
	}
	for _, it := range items {
		if !it.Permanent {
			t.Fatalf("non-permanent %s survived clear", it.ID)
		}
	}
}

func TestFormatTRY(t *testing.T) {
	got := FormatTRY(1234.56)
	if !strings.Contains(got, "1.234,56") {
		t.Fatalf("unexpected lira formatting: %s", got)
	}
}

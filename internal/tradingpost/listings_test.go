package tradingpost

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestGetListings(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/commerce/listings/19684" {
			t.Errorf("path = %q, want /commerce/listings/19684", r.URL.Path)
		}
		resp := map[string]any{
			"id": 19684,
			"sells": []map[string]int{
				{"listings": 1, "unit_price": 5, "quantity": 2},
				{"listings": 2, "unit_price": 6, "quantity": 3},
			},
			"buys": []map[string]int{
				{"listings": 4, "unit_price": 4, "quantity": 10},
				{"listings": 1, "unit_price": 3, "quantity": 7},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewClient(server.URL, "", WithTimeout(5*time.Second))

	book, err := client.GetListings(context.Background(), 19684)
	if err != nil {
		t.Fatalf("GetListings failed: %v", err)
	}

	if len(book.Sell) != 2 {
		t.Fatalf("len(Sell) = %d, want 2", len(book.Sell))
	}
	if len(book.Buy) != 2 {
		t.Fatalf("len(Buy) = %d, want 2", len(book.Buy))
	}

	// Source order must be preserved: sells ascending, buys descending.
	if book.Sell[0].UnitPrice != 5 || book.Sell[1].UnitPrice != 6 {
		t.Errorf("sell prices = %d,%d, want 5,6", book.Sell[0].UnitPrice, book.Sell[1].UnitPrice)
	}
	if book.Buy[0].UnitPrice != 4 || book.Buy[1].UnitPrice != 3 {
		t.Errorf("buy prices = %d,%d, want 4,3", book.Buy[0].UnitPrice, book.Buy[1].UnitPrice)
	}
	if book.Sell[0].Quantity != 2 || book.Sell[0].Listings != 1 {
		t.Errorf("sell[0] = %+v, want quantity 2 listings 1", book.Sell[0])
	}
}

func TestGetListingsEmptyBook(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"id":    100,
			"sells": []map[string]int{},
			"buys":  []map[string]int{},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, "")

	book, err := client.GetListings(context.Background(), 100)
	if err != nil {
		t.Fatalf("GetListings failed: %v", err)
	}
	if len(book.Sell) != 0 || len(book.Buy) != 0 {
		t.Errorf("empty book parsed as %d sells, %d buys", len(book.Sell), len(book.Buy))
	}
}

func TestGetListingsNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such id", http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(server.URL, "")

	_, err := client.GetListings(context.Background(), 42)
	if err == nil {
		t.Fatal("expected error for 404 response")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %T, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusNotFound {
		t.Errorf("StatusCode = %d, want 404", apiErr.StatusCode)
	}
	if apiErr.IsRetryable() {
		t.Error("404 must not be retryable")
	}
}

func TestGetListingsRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"id":    7,
			"sells": []map[string]int{{"listings": 1, "unit_price": 9, "quantity": 1}},
			"buys":  []map[string]int{},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, "", WithRetries(2, 10*time.Millisecond))

	book, err := client.GetListings(context.Background(), 7)
	if err != nil {
		t.Fatalf("GetListings failed after retry: %v", err)
	}
	if got := calls.Load(); got != 2 {
		t.Errorf("server calls = %d, want 2", got)
	}
	if book.Sell[0].UnitPrice != 9 {
		t.Errorf("sell price = %d, want 9", book.Sell[0].UnitPrice)
	}
}

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/rl1809/icecream-stock/internal/core/domain"
)

const (
	defaultBaseURL  = "http://localhost:3000"
	defaultItemName = "Rainbow"
	requestTimeout  = 10 * time.Second
)

type stockLevels struct {
	Stock       int `json:"stock"`
	MaxStock    int `json:"max_stock"`
	TargetStock int `json:"target_stock"`
}

func main() {
	baseURL := flag.String("url", defaultBaseURL, "base URL of the stock server")
	name := flag.String("name", defaultItemName, "ice cream to update")
	total := flag.Int("requests", 50, "number of concurrent updates")
	flag.Parse()

	client := &http.Client{Timeout: requestTimeout}
	ctx := context.Background()

	written := make(map[stockLevels]struct{}, *total)
	for i := 0; i < *total; i++ {
		written[levelsFor(i)] = struct{}{}
	}

	var successCount atomic.Int32
	var notFoundCount atomic.Int32
	var failCount atomic.Int32

	var wg sync.WaitGroup
	start := time.Now()

	for i := 0; i < *total; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()

			status, err := putStock(ctx, client, *baseURL, *name, levelsFor(n))
			switch {
			case err != nil:
				log.Printf("request %d: %v", n, err)
				failCount.Add(1)
			case status == http.StatusOK:
				successCount.Add(1)
			case status == http.StatusNotFound:
				notFoundCount.Add(1)
			default:
				log.Printf("request %d: unexpected status %d", n, status)
				failCount.Add(1)
			}
		}(i)
	}

	wg.Wait()
	elapsed := time.Since(start)

	success := successCount.Load()
	notFound := notFoundCount.Load()
	fail := failCount.Load()

	fmt.Println("========== STRESS TEST RESULTS ==========")
	fmt.Printf("Ice Cream:        %s\n", *name)
	fmt.Printf("Total Requests:   %d\n", *total)
	fmt.Printf("Successful:       %d\n", success)
	fmt.Printf("Not Found:        %d\n", notFound)
	fmt.Printf("Failed:           %d\n", fail)
	fmt.Printf("Duration:         %v\n", elapsed)
	fmt.Println("==========================================")

	ok := true
	if success == int32(*total) {
		fmt.Printf("PASS: All %d updates succeeded\n", *total)
	} else {
		fmt.Printf("FAIL: Expected %d successful updates, got %d\n", *total, success)
		ok = false
	}

	items, err := listStock(ctx, client, *baseURL)
	if err != nil {
		log.Fatalf("failed to list stock: %v", err)
	}

	var stored *domain.InventoryItem
	for i := range items {
		if items[i].Name == *name {
			stored = &items[i]
			break
		}
	}

	switch {
	case stored == nil:
		fmt.Printf("FAIL: %s missing from stock list\n", *name)
		ok = false
	default:
		final := stockLevels{Stock: stored.Stock, MaxStock: stored.MaxStock, TargetStock: stored.TargetStock}
		fmt.Printf("Final Stock:      %+v\n", final)
		if _, found := written[final]; found {
			fmt.Println("PASS: Stored values match one complete update")
		} else {
			fmt.Println("FAIL: Stored values do not match any update")
			ok = false
		}
	}

	if !ok {
		os.Exit(1)
	}
}

// levelsFor keeps the three fields of one request correlated so a torn write is detectable.
func levelsFor(n int) stockLevels {
	return stockLevels{Stock: n, MaxStock: n + 1000, TargetStock: n + 2000}
}

func putStock(ctx context.Context, client *http.Client, baseURL, name string, levels stockLevels) (int, error) {
	body, err := json.Marshal(levels)
	if err != nil {
		return 0, fmt.Errorf("marshal body: %w", err)
	}

	target := baseURL + "/api/stock/" + url.PathEscape(name)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, target, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("put stock: %w", err)
	}
	defer resp.Body.Close()

	return resp.StatusCode, nil
}

func listStock(ctx context.Context, client *http.Client, baseURL string) ([]domain.InventoryItem, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/api/stock", nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get stock: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("get stock: unexpected status %d", resp.StatusCode)
	}

	var items []domain.InventoryItem
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, fmt.Errorf("decode stock: %w", err)
	}
	return items, nil
}

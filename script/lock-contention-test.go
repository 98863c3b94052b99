package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	"strings"
	"sync"
	"time"
)

// AcquireResponse represents the lock endpoint response
type AcquireResponse struct {
	Success bool `json:"success"`
	Lock    *struct {
		InvoiceID      string `json:"invoiceId"`
		LockedByUserID string `json:"lockedByUserId"`
	} `json:"lock"`
	Holder *struct {
		LockedByUserID string `json:"lockedByUserId"`
		LockedByEmail  string `json:"lockedByEmail"`
	} `json:"holder"`
}

// TestResult contains metrics for a single acquire attempt
type TestResult struct {
	Acquired     bool
	Conflict     bool
	ResponseTime time.Duration
	StatusCode   int
	Error        error
}

// TestStats contains aggregated test statistics
type TestStats struct {
	TotalRequests     int
	AcquiredCount     int
	ConflictCount     int
	FailedRequests    int
	TotalTime         time.Duration
	MinResponseTime   time.Duration
	MaxResponseTime   time.Duration
	TotalResponseTime time.Duration
	ResponseTimes     []time.Duration
	ErrorCounts       map[string]int
	InvoiceStats      map[string]int // Track contention per invoice
	Lock              sync.Mutex
}

func main() {
	// Define command line flags
	concurrency := flag.Int("c", 5, "Number of concurrent simulated users")
	totalRequests := flag.Int("n", 100, "Total number of acquire attempts")
	invoicesStr := flag.String("i", "INV-001,INV-002,INV-003", "Comma-separated invoice IDs to contend on")
	baseURL := flag.String("url", "http://localhost:8080", "Base URL for the API")
	holdMs := flag.Int("hold", 200, "How long a winner holds the lock before releasing, in milliseconds")
	delayMs := flag.Int("delay", 50, "Delay between attempts in milliseconds")
	flag.Parse()

	// Parse invoice IDs
	var invoiceIDs []string
	for _, id := range strings.Split(*invoicesStr, ",") {
		if trimmed := strings.TrimSpace(id); trimmed != "" {
			invoiceIDs = append(invoiceIDs, trimmed)
		}
	}
	if len(invoiceIDs) == 0 {
		invoiceIDs = []string{"INV-001"}
	}

	fmt.Printf("Lock contention test across %d invoices: %v\n", len(invoiceIDs), invoiceIDs)
	fmt.Printf("Concurrency: %d simulated users\n", *concurrency)
	fmt.Printf("Total acquire attempts: %d\n", *totalRequests)
	fmt.Printf("Hold time: %d ms, delay between attempts: %d ms\n", *holdMs, *delayMs)

	// Initialize test statistics
	stats := &TestStats{
		TotalRequests:   *totalRequests,
		MinResponseTime: time.Hour, // Start with a high value that will be replaced
		ErrorCounts:     make(map[string]int),
		ResponseTimes:   make([]time.Duration, 0, *totalRequests),
		InvoiceStats:    make(map[string]int),
	}
	for _, id := range invoiceIDs {
		stats.InvoiceStats[id] = 0
	}

	// Channel to collect results
	results := make(chan TestResult, *totalRequests)

	// Channel to distribute work
	jobs := make(chan int, *totalRequests)

	// Start worker goroutines, each acting as a distinct user
	var wg sync.WaitGroup
	fmt.Println("Starting simulated users...")
	for i := 0; i < *concurrency; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			worker(workerID, *baseURL, *holdMs, *delayMs, invoiceIDs, jobs, results, stats)
		}(i)
	}

	// Fill the jobs channel
	go func() {
		for i := 0; i < *totalRequests; i++ {
			jobs <- i
		}
		close(jobs)
	}()

	// Start a goroutine to collect results
	go func() {
		for result := range results {
			stats.Lock.Lock()
			switch {
			case result.Error != nil:
				stats.FailedRequests++
				stats.ErrorCounts[result.Error.Error()]++
			case result.Acquired:
				stats.AcquiredCount++
			case result.Conflict:
				stats.ConflictCount++
			}

			stats.ResponseTimes = append(stats.ResponseTimes, result.ResponseTime)
			stats.TotalResponseTime += result.ResponseTime

			if result.ResponseTime < stats.MinResponseTime {
				stats.MinResponseTime = result.ResponseTime
			}
			if result.ResponseTime > stats.MaxResponseTime {
				stats.MaxResponseTime = result.ResponseTime
			}
			stats.Lock.Unlock()
		}
	}()

	// Start the timer
	startTime := time.Now()
	fmt.Println("Test running...")

	// Print progress periodically
	ticker := time.NewTicker(1 * time.Second)
	go func() {
		for range ticker.C {
			stats.Lock.Lock()
			completed := stats.AcquiredCount + stats.ConflictCount + stats.FailedRequests
			if completed > 0 {
				fmt.Printf("Progress: %d/%d attempts completed (%.1f%%)\n",
					completed, stats.TotalRequests, float64(completed)/float64(stats.TotalRequests)*100)
			}
			stats.Lock.Unlock()
		}
	}()

	// Wait for all workers to finish
	wg.Wait()
	close(results)
	ticker.Stop()

	// Calculate the total test time
	stats.TotalTime = time.Since(startTime)

	// Print results
	printResults(stats)
}

func worker(id int, baseURL string, holdMs, delayMs int, invoiceIDs []string,
	jobs <-chan int, results chan<- TestResult, stats *TestStats) {

	client := &http.Client{
		Timeout: 10 * time.Second,
	}

	userID := fmt.Sprintf("loadtest-user-%d", id)
	userEmail := fmt.Sprintf("loadtest-%d@example.com", id)

	for range jobs {
		// Optional delay between attempts
		if delayMs > 0 {
			time.Sleep(time.Duration(delayMs) * time.Millisecond)
		}

		// Randomly pick an invoice to contend on
		invoiceID := invoiceIDs[rand.Intn(len(invoiceIDs))]

		stats.Lock.Lock()
		stats.InvoiceStats[invoiceID]++
		stats.Lock.Unlock()

		result := attemptAcquire(client, baseURL, invoiceID, userID, userEmail)
		results <- result

		// Winners hold the lock briefly then release, so other workers get a
		// mix of conflicts and successful acquires
		if result.Acquired {
			if holdMs > 0 {
				time.Sleep(time.Duration(holdMs) * time.Millisecond)
			}
			release(client, baseURL, invoiceID, userID, userEmail)
		}
	}
}

func attemptAcquire(client *http.Client, baseURL, invoiceID, userID, userEmail string) TestResult {
	apiURL := fmt.Sprintf("%s/invoices/%s/lock", baseURL, invoiceID)

	req, err := http.NewRequest("POST", apiURL, bytes.NewBuffer(nil))
	if err != nil {
		return TestResult{Error: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", userID)
	req.Header.Set("X-User-Email", userEmail)

	startTime := time.Now()
	resp, err := client.Do(req)
	responseTime := time.Since(startTime)

	result := TestResult{ResponseTime: responseTime}
	if err != nil {
		result.Error = err
		return result
	}
	defer resp.Body.Close()

	result.StatusCode = resp.StatusCode
	var body AcquireResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		result.Error = fmt.Errorf("decode response: %w", err)
		return result
	}

	switch {
	case resp.StatusCode == http.StatusOK && body.Success:
		result.Acquired = true
	case resp.StatusCode == http.StatusConflict:
		result.Conflict = true
	default:
		result.Error = fmt.Errorf("HTTP status code %d", resp.StatusCode)
	}
	return result
}

func release(client *http.Client, baseURL, invoiceID, userID, userEmail string) {
	apiURL := fmt.Sprintf("%s/invoices/%s/lock", baseURL, invoiceID)

	req, err := http.NewRequest("DELETE", apiURL, nil)
	if err != nil {
		return
	}
	req.Header.Set("X-User-ID", userID)
	req.Header.Set("X-User-Email", userEmail)

	if resp, err := client.Do(req); err == nil {
		resp.Body.Close()
	}
}

func printResults(stats *TestStats) {
	attempted := stats.AcquiredCount + stats.ConflictCount + stats.FailedRequests
	throughput := float64(attempted) / stats.TotalTime.Seconds()

	// Calculate average response time
	var avgResponseTime time.Duration
	if len(stats.ResponseTimes) > 0 {
		avgResponseTime = stats.TotalResponseTime / time.Duration(len(stats.ResponseTimes))
	}

	// Calculate percentiles
	var p50, p90, p95, p99 time.Duration
	if len(stats.ResponseTimes) > 0 {
		sortedTimes := make([]time.Duration, len(stats.ResponseTimes))
		copy(sortedTimes, stats.ResponseTimes)

		// Simple bubble sort (OK for small datasets)
		for i := 0; i < len(sortedTimes); i++ {
			for j := i + 1; j < len(sortedTimes); j++ {
				if sortedTimes[i] > sortedTimes[j] {
					sortedTimes[i], sortedTimes[j] = sortedTimes[j], sortedTimes[i]
				}
			}
		}

		p50 = sortedTimes[len(sortedTimes)*50/100]
		p90 = sortedTimes[len(sortedTimes)*90/100]
		p95 = sortedTimes[len(sortedTimes)*95/100]
		p99 = sortedTimes[len(sortedTimes)*99/100]
	}

	fmt.Println("\n================= TEST RESULTS =================")
	fmt.Printf("Total Attempts:      %d\n", attempted)
	fmt.Printf("Acquired:            %d (%.1f%%)\n", stats.AcquiredCount,
		float64(stats.AcquiredCount)/float64(attempted)*100)
	fmt.Printf("Conflicts:           %d (%.1f%%)\n", stats.ConflictCount,
		float64(stats.ConflictCount)/float64(attempted)*100)
	fmt.Printf("Failures:            %d (%.1f%%)\n", stats.FailedRequests,
		float64(stats.FailedRequests)/float64(attempted)*100)
	fmt.Printf("Total Test Time:     %.2f seconds\n", stats.TotalTime.Seconds())
	fmt.Printf("Throughput:          %.2f attempts/second\n", throughput)

	fmt.Println("\n----------------- RESPONSE TIMES -----------------")
	fmt.Printf("Average Response:    %v\n", avgResponseTime)
	fmt.Printf("Minimum Response:    %v\n", stats.MinResponseTime)
	fmt.Printf("Maximum Response:    %v\n", stats.MaxResponseTime)
	fmt.Printf("P50 Response:        %v\n", p50)
	fmt.Printf("P90 Response:        %v\n", p90)
	fmt.Printf("P95 Response:        %v\n", p95)
	fmt.Printf("P99 Response:        %v\n", p99)

	// Print contention distribution
	fmt.Println("\n----------------- INVOICE DISTRIBUTION -----------------")
	totalAttempts := 0
	for _, count := range stats.InvoiceStats {
		totalAttempts += count
	}
	for invoiceID, count := range stats.InvoiceStats {
		if count > 0 {
			fmt.Printf("%-12s: %d attempts (%.1f%%)\n", invoiceID, count,
				float64(count)/float64(totalAttempts)*100)
		}
	}

	// Print error distribution if there were errors
	if stats.FailedRequests > 0 {
		fmt.Println("\n----------------- ERROR DISTRIBUTION -----------------")
		for errMsg, count := range stats.ErrorCounts {
			fmt.Printf("%-40s: %d (%.1f%%)\n", errMsg, count,
				float64(count)/float64(stats.TotalRequests)*100)
		}
	}

	// Sanity check: under contention most attempts on a shared invoice should
	// conflict, never error
	fmt.Println("\n================= CONCLUSION =================")
	if stats.FailedRequests == 0 {
		fmt.Println("No hard failures: every attempt resolved to acquired or conflict")
	} else {
		fmt.Printf("%d attempts failed outright, inspect the error distribution above\n", stats.FailedRequests)
	}
	fmt.Println("================================================")
}

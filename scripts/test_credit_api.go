package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/fatih/color"
)

const baseURL = "http://localhost:3000/api"

// Tokens come from the environment so the script works against any deploy.
var (
	userToken  = os.Getenv("TEST_USER_TOKEN")
	adminToken = os.Getenv("TEST_ADMIN_TOKEN")
)

// Pretty print JSON helper
func prettyPrint(body []byte) {
	var v interface{}
	if err := json.Unmarshal(body, &v); err != nil {
		fmt.Println(string(body))
		return
	}
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(b))
}

// Request helper
func sendRequest(method, url, token string, body interface{}) (*http.Response, []byte, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		bodyReader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, baseURL+url, bodyReader)
	if err != nil {
		return nil, nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	return resp, respBody, err
}

func main() {
	color.Cyan("🚀 Starting Credit Accounting API Smoke Test\n")

	if userToken == "" {
		color.Red("TEST_USER_TOKEN is not set")
		os.Exit(1)
	}

	color.Yellow("\n[USER] 1. Get Balance")
	resp, body, err := sendRequest("GET", "/credit/v1/balance", userToken, nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	prettyPrint(body)

	color.Yellow("\n[USER] 2. Price a Course (15 minutes)")
	resp, body, err = sendRequest("POST", "/credit/v1/price", userToken, map[string]interface{}{
		"kind":     "course",
		"duration": 15,
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	prettyPrint(body)

	color.Yellow("\n[USER] 3. Create Course (debits credits)")
	resp, body, err = sendRequest("POST", "/course/v1", userToken, map[string]interface{}{
		"title":            "Intro to Distributed Systems",
		"topic":            "consensus, replication, failure modes",
		"duration_minutes": 15,
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	prettyPrint(body)

	color.Yellow("\n[USER] 4. List Recent Transactions")
	resp, body, err = sendRequest("GET", "/credit/v1/transactions?limit=10", userToken, nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	prettyPrint(body)

	if adminToken != "" {
		color.Yellow("\n[ADMIN] 5. Adjust Balance (+10 goodwill)")
		resp, body, err = sendRequest("POST", "/credit/v1/admin/adjust", adminToken, map[string]interface{}{
			"account_id":  os.Getenv("TEST_USER_ID"),
			"delta":       10,
			"description": "smoke test goodwill grant",
		})
		if err != nil {
			color.Red("Failed: %v", err)
			os.Exit(1)
		}
		color.Green("Status: %s", resp.Status)
		prettyPrint(body)
	}

	color.Cyan("\n✅ Smoke test finished")
}

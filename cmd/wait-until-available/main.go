package main

import (
	"fmt"
	"net/http"
	"time"
)

// Polls the service until it answers. GET /get_user_list/ returns 200 with
// users or 204 with none; either means the service and its database are up.
func main() {
	totalWaitTime := 0
	for {
		res, err := http.Get("http://localhost:8080/get_user_list/")
		if err == nil {
			if res.StatusCode == http.StatusOK || res.StatusCode == http.StatusNoContent {
				fmt.Println(res.Status)
				break
			}
			fmt.Println(res.Status)
		} else {
			fmt.Println(err)
		}
		totalWaitTime += 5
		fmt.Printf("Waiting %d seconds", totalWaitTime)
		fmt.Println()
		time.Sleep(5 * time.Second)
	}
}

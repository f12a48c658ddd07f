package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/sauvikbiswas007/contactbook/pkg/model"
)

const serverPort = 8080

// A small smoke client that walks the whole API: it registers an owner and
// two contacts, lists the users, searches the owner's contact list, and
// finally soft-deletes one contact.
//
// Usage example on the command line:
// > go run main.go
func main() {
	send("POST", "/add_user/", `{"email": "emailone@yopmail.com", "phone": "3434343434"}`)

	users := send("GET", "/get_user_list/", "")
	var list []model.User
	if err := json.Unmarshal(users.Data, &list); err != nil {
		panic(err)
	}
	if len(list) == 0 {
		panic("no users registered")
	}
	owner := list[len(list)-1]
	fmt.Printf("owner id=%d audit created_by=%d\n", owner.ID, owner.Audit.CreatedBy)

	send("POST", "/contact_list/", fmt.Sprintf(`{
		"owner": %d,
		"contact_list": [
			{"email": "emailtwo@yopmail.com", "phone": "1111111111"},
			{"email": "emailthree@yopmail.com", "phone": "2222222222"}
		]
	}`, owner.ID))

	hits := send("POST", "/search_contact/", fmt.Sprintf(`{"owner": %d, "search_key": "emailtwo"}`, owner.ID))
	var found []model.User
	if hits.Data != nil {
		if err := json.Unmarshal(hits.Data, &found); err != nil {
			panic(err)
		}
	}
	for _, u := range found {
		fmt.Printf("search hit: %s %s\n", u.Email, u.Phone)
		send("DELETE", fmt.Sprintf("/user_details/%d/", u.ID), "")
	}
}

// send executes one request against the local service and prints the
// enveloped response.
func send(method string, path string, body string) model.Response {
	requestURL := fmt.Sprintf("http://localhost:%d%s", serverPort, path)
	var bodyReader io.Reader
	if body != "" {
		bodyReader = bytes.NewReader([]byte(body))
	}
	req, err := http.NewRequest(method, requestURL, bodyReader)
	if err != nil {
		panic(err)
	}
	req.Header.Set("Content-Type", "application/json")
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		panic(err)
	}
	defer res.Body.Close()
	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		panic(err)
	}
	var envelope model.Response
	if len(resBody) > 0 {
		if err := json.Unmarshal(resBody, &envelope); err != nil {
			panic(err)
		}
	}
	fmt.Printf("%s %s -> %d %s\n", method, path, res.StatusCode, envelope.Message)
	return envelope
}

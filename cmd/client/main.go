package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"time"

	"gitlab.com/dirk.krummacker/personal-crm/internal/auth"
	"gitlab.com/dirk.krummacker/personal-crm/internal/model"
	pkgmodel "gitlab.com/dirk.krummacker/personal-crm/pkg/model"
)

var (
	baseURL = flag.String("url", "http://localhost:8080", "the base URL of the service")
	cookie  = flag.String("cookie", "", "the value of the crm_session cookie of a signed-in user")
)

// Usage example on the command line:
// > go run main.go -cookie=MTcx...
func main() {
	flag.Parse()

	fmt.Println()
	fmt.Println("  Elements      POST       PUT       GET    DELETE ")
	fmt.Println("---------------------------------------------------")
	sizes := []int{100, 500, 1000, 5000}
	input := pkgmodel.CreateContactInput{
		Name:        "Marcus Antonius",
		ProfileLink: "https://example.com/marcus",
		Reason:      "benchmark",
	}
	for _, loops := range sizes {
		fmt.Printf("%10d", loops)
		ids := make([]string, 0, loops)
		{
			// POST requests
			var duration int64
			for i := 0; i < loops; i++ {
				id, d := sendPostRequest(input)
				ids = append(ids, id)
				duration += d
			}
			fmt.Printf("%10d", duration/int64(loops*1000))
		}
		{
			// PUT requests
			f := func(id string) int64 {
				update := pkgmodel.UpdateContactInput{
					ID:          id,
					Name:        input.Name,
					ProfileLink: input.ProfileLink,
					Reason:      "updated by benchmark",
				}
				return sendPutGetDeleteRequest(id, http.MethodPut, encode(update))
			}
			callInLoop(ids, f)
		}
		{
			// GET requests
			f := func(id string) int64 {
				return sendPutGetDeleteRequest(id, http.MethodGet, nil)
			}
			callInLoop(ids, f)
		}
		{
			// DELETE requests
			f := func(id string) int64 {
				return sendPutGetDeleteRequest(id, http.MethodDelete, nil)
			}
			callInLoop(ids, f)
		}
		fmt.Println()
	}
}

func callInLoop(ids []string, f func(id string) int64) {
	shuffled := append([]string(nil), ids...)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	var duration int64
	for _, id := range shuffled {
		duration += f(id)
	}
	fmt.Printf("%10d", duration/int64(len(ids)*1000))
}

func encode(v any) io.Reader {
	body, err := json.Marshal(v)
	if err != nil {
		fmt.Println("could not marshal JSON", err)
		panic(err)
	}
	return bytes.NewReader(body)
}

func sendPostRequest(input pkgmodel.CreateContactInput) (string, int64) {
	resBody, duration := sendRequest(http.MethodPost, *baseURL+"/contacts", encode(input))
	var contact model.ContactView
	err := json.Unmarshal(resBody, &contact)
	if err != nil {
		fmt.Println("could not unmarshal JSON", err)
		panic(err)
	}
	return contact.ID, duration
}

func sendPutGetDeleteRequest(id string, method string, bodyReader io.Reader) int64 {
	_, duration := sendRequest(method, *baseURL+"/contacts/"+id, bodyReader)
	return duration
}

func sendRequest(method string, requestURL string, bodyReader io.Reader) ([]byte, int64) {
	req, err := http.NewRequest(method, requestURL, bodyReader)
	if err != nil {
		fmt.Println("could not create request", err)
		panic(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: auth.SessionName, Value: *cookie})

	// Redirects to the sign-in page mean that the cookie is not accepted.
	client := &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}}
	before := time.Now().UnixNano()
	res, err := client.Do(req)
	if err != nil {
		fmt.Println("error making http request", err)
		panic(err)
	}
	defer res.Body.Close()
	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		fmt.Println("could not read response body", err)
		panic(err)
	}
	after := time.Now().UnixNano()
	if res.StatusCode >= http.StatusMultipleChoices {
		fmt.Println("unexpected status", res.Status, string(resBody))
		panic(res.Status)
	}
	return resBody, after - before
}

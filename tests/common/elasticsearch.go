package common

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"genelit/api/utils"

	es7 "github.com/elastic/go-elasticsearch/v7"
)

// FakeElasticsearch answers info, search and count requests with canned
// bodies keyed by index name, and records every search body it sees.
type FakeElasticsearch struct {
	Server *httptest.Server

	mu        sync.Mutex
	responses map[string]string
	failing   map[string]bool
	counts    map[string]int
	searches  map[string][]map[string]interface{}
}

func NewFakeElasticsearch(t *testing.T) *FakeElasticsearch {
	f := &FakeElasticsearch{
		responses: map[string]string{},
		failing:   map[string]bool{},
		counts:    map[string]int{},
		searches:  map[string][]map[string]interface{}{},
	}
	f.Server = httptest.NewServer(http.HandlerFunc(f.handle))
	t.Cleanup(f.Server.Close)
	return f
}

func (f *FakeElasticsearch) Client(t *testing.T) *es7.Client {
	es, err := utils.CreateEsConnection(f.Server.URL, "", "")
	if err != nil {
		t.Fatal(err)
	}
	return es
}

// RespondWithHits makes searches on index return sources as hits.
func (f *FakeElasticsearch) RespondWithHits(index string, sources ...string) {
	hits := make([]string, 0, len(sources))
	for i, source := range sources {
		hits = append(hits, fmt.Sprintf(`{"_index":%q,"_id":"%d","_source":%s}`, index, i, source))
	}
	f.Respond(index, fmt.Sprintf(`{"hits":{"total":{"value":%d,"relation":"eq"},"hits":[%s]}}`, len(hits), strings.Join(hits, ",")))
}

func (f *FakeElasticsearch) Respond(index string, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[index] = body
}

// Fail makes every request on index answer with a server error.
func (f *FakeElasticsearch) Fail(index string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failing[index] = true
}

func (f *FakeElasticsearch) Count(index string, n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counts[index] = n
}

func (f *FakeElasticsearch) Searches(index string) []map[string]interface{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.searches[index]
}

func (f *FakeElasticsearch) handle(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")

	f.mu.Lock()
	defer f.mu.Unlock()

	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	switch {
	case r.URL.Path == "/":
		fmt.Fprint(w, `{"version":{"number":"7.17.7","build_flavor":"default"},"tagline":"You Know, for Search"}`)

	case len(parts) == 2 && f.failing[parts[0]]:
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"error":{"type":"search_phase_execution_exception","reason":"all shards failed"},"status":500}`)

	case len(parts) == 2 && parts[1] == "_search":
		var body map[string]interface{}
		json.NewDecoder(r.Body).Decode(&body)
		f.searches[parts[0]] = append(f.searches[parts[0]], body)
		if response, ok := f.responses[parts[0]]; ok {
			fmt.Fprint(w, response)
			return
		}
		fmt.Fprint(w, `{"hits":{"total":{"value":0,"relation":"eq"},"hits":[]}}`)

	case len(parts) == 2 && parts[1] == "_count":
		fmt.Fprintf(w, `{"count":%d}`, f.counts[parts[0]])

	default:
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"error":{"type":"index_not_found_exception","reason":"no such index"},"status":404}`)
	}
}

package retrieval

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"genelit/api/models"
	"genelit/api/models/evidence"
	"genelit/api/utils"

	"github.com/Jeffail/gabs"
	"github.com/PuerkitoBio/goquery"
	"github.com/cenkalti/backoff"
	"github.com/labstack/gommon/log"
	"golang.org/x/time/rate"
)

type (
	// Fetcher resolves entities to literature identifiers and
	// identifiers to evidence records against the PubMed E-utilities.
	// Failures are retried a bounded number of times and then
	// degrade to an empty result.
	Fetcher struct {
		searchUrl     string
		fetchUrl      string
		database      string
		apiKey        string
		maxArticles   int
		maxAttempts   int
		retryInterval time.Duration

		client  *http.Client
		permits *PermitPool
		limiter *rate.Limiter
		logger  *log.Logger
	}
)

func NewFetcher(cfg *models.Config, permits *PermitPool) *Fetcher {
	lit := cfg.Literature

	if permits == nil {
		permits = NewPermitPool(lit.ConcurrencyLevel)
	}

	limit := rate.Inf
	if lit.RequestsPerSecond > 0 {
		limit = rate.Limit(lit.RequestsPerSecond)
	}

	maxAttempts := lit.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	return &Fetcher{
		searchUrl:     lit.SearchUrl,
		fetchUrl:      lit.FetchUrl,
		database:      lit.Database,
		apiKey:        lit.ApiKey,
		maxArticles:   lit.MaxArticles,
		maxAttempts:   maxAttempts,
		retryInterval: lit.RetryInterval,

		client:  utils.NewHttpClient(lit.Timeout),
		permits: permits,
		limiter: rate.NewLimiter(limit, 1),
		logger:  utils.NewLogger("fetcher", cfg.Debug),
	}
}

// Fetch returns at most maxArticles literature identifiers for entity.
func (f *Fetcher) Fetch(ctx context.Context, entity string) []string {
	params := f.baseParams()
	params.Set("term", entity)
	params.Set("retmax", strconv.Itoa(f.maxArticles))
	params.Set("retmode", "json")

	ids := []string{}
	err := f.getWithRetry(ctx, f.searchUrl+"?"+params.Encode(), func(body []byte) error {
		parsed, err := gabs.ParseJSON(body)
		if err != nil {
			return err
		}

		children, err := parsed.Path("esearchresult.idlist").Children()
		if err != nil {
			return fmt.Errorf("no idlist in search response: %w", err)
		}

		found := make([]string, 0, len(children))
		for _, child := range children {
			if id, ok := child.Data().(string); ok && id != "" {
				found = append(found, id)
			}
		}
		ids = found
		return nil
	})
	if err != nil {
		f.logger.Warnf("search for %q gave up: %v", entity, err)
		return []string{}
	}

	if f.maxArticles > 0 && len(ids) > f.maxArticles {
		ids = ids[:f.maxArticles]
	}
	return ids
}

// FetchDetails issues a single detail request for all of ids.
// Identifiers missing from the response still get a link-only record.
func (f *Fetcher) FetchDetails(ctx context.Context, entity string, ids []string) []evidence.EvidenceRecord {
	if len(ids) == 0 {
		return []evidence.EvidenceRecord{}
	}

	params := f.baseParams()
	params.Set("id", strings.Join(ids, ","))
	params.Set("retmode", "xml")

	details := map[string]evidence.EvidenceRecord{}
	err := f.getWithRetry(ctx, f.fetchUrl+"?"+params.Encode(), func(body []byte) error {
		parsed, err := parseArticles(body)
		if err != nil {
			return err
		}
		details = parsed
		return nil
	})
	if err != nil {
		f.logger.Warnf("detail fetch for %q (%d ids) gave up: %v", entity, len(ids), err)
		return []evidence.EvidenceRecord{}
	}

	records := make([]evidence.EvidenceRecord, 0, len(ids))
	for _, id := range ids {
		record := details[id]
		record.Entity = entity
		record.LiteratureId = id
		record.Link = evidence.LinkFor(id)
		records = append(records, record)
	}
	return records
}

func (f *Fetcher) baseParams() url.Values {
	params := url.Values{}
	params.Set("db", f.database)
	if f.apiKey != "" {
		params.Set("api_key", f.apiKey)
	}
	return params
}

// getWithRetry holds a permit only for the duration of each attempt;
// the wait between attempts happens with the permit released.
func (f *Fetcher) getWithRetry(ctx context.Context, requestUrl string, decode func(body []byte) error) error {
	policy := backoff.WithMaxRetries(backoff.NewConstantBackOff(f.retryInterval), uint64(f.maxAttempts-1))

	attempt := 0
	operation := func() error {
		attempt++
		body, err := f.get(ctx, requestUrl)
		if err != nil {
			return err
		}
		return decode(body)
	}
	notify := func(err error, wait time.Duration) {
		f.logger.Debugf("attempt %d/%d failed (%v), retrying in %s", attempt, f.maxAttempts, err, wait)
	}

	return backoff.RetryNotify(operation, backoff.WithContext(policy, ctx), notify)
}

func (f *Fetcher) get(ctx context.Context, requestUrl string) ([]byte, error) {
	var body []byte
	err := f.permits.Do(ctx, func() error {
		if err := f.limiter.Wait(ctx); err != nil {
			return err
		}

		request, err := http.NewRequestWithContext(ctx, http.MethodGet, requestUrl, nil)
		if err != nil {
			return backoff.Permanent(err)
		}

		response, err := f.client.Do(request)
		if err != nil {
			return err
		}
		defer response.Body.Close()

		if response.StatusCode != http.StatusOK {
			io.Copy(io.Discard, response.Body)
			return fmt.Errorf("unexpected status %d", response.StatusCode)
		}

		body, err = io.ReadAll(response.Body)
		return err
	})
	return body, err
}

// parseArticles reads a PubMed efetch XML document. goquery lowercases
// element names, hence the selectors.
func parseArticles(body []byte) (map[string]evidence.EvidenceRecord, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	articles := map[string]evidence.EvidenceRecord{}
	doc.Find("pubmedarticle").Each(func(_ int, article *goquery.Selection) {
		id := strings.TrimSpace(article.Find("medlinecitation > pmid").First().Text())
		if id == "" {
			return
		}

		var paragraphs []string
		article.Find("abstracttext").Each(func(_ int, p *goquery.Selection) {
			if text := strings.TrimSpace(p.Text()); text != "" {
				paragraphs = append(paragraphs, text)
			}
		})

		articles[id] = evidence.EvidenceRecord{
			LiteratureId: id,
			Title:        strings.TrimSpace(article.Find("articletitle").First().Text()),
			Abstract:     strings.Join(paragraphs, " "),
		}
	})
	return articles, nil
}

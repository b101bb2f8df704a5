// Copyright ©2025 The qiime-pipes Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package entrez provides the minimal NCBI E-utilities client needed to
// enumerate the SRA runs belonging to a BioProject.
package entrez

import (
	"context"
	"encoding/csv"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/carbocation/pfx"
	"golang.org/x/net/html/charset"
)

// DefaultBaseURL is the public E-utilities endpoint.
const DefaultBaseURL = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils"

// runPattern identifies SRA run accessions in runinfo fields.
var runPattern = regexp.MustCompile(`^SRR[0-9]+$`)

// Client is an E-utilities client. The zero value queries the public
// endpoint with the default http.Client.
type Client struct {
	BaseURL string // service endpoint, DefaultBaseURL if empty

	Tool   string // tool name reported to the service
	Email  string // contact address reported to the service
	APIKey string // NCBI API key, raises the request rate limit

	HTTPClient *http.Client
}

// History identifies a search result set held on the Entrez history
// server.
type History struct {
	Count    int
	QueryKey string
	WebEnv   string
}

type searchResult struct {
	Count    int    `xml:"Count"`
	QueryKey string `xml:"QueryKey"`
	WebEnv   string `xml:"WebEnv"`
}

func (c *Client) base() string {
	if c.BaseURL == "" {
		return DefaultBaseURL
	}
	return strings.TrimSuffix(c.BaseURL, "/")
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient == nil {
		return http.DefaultClient
	}
	return c.HTTPClient
}

// get performs a single E-utilities request, returning the response
// body. Identification parameters are attached when configured.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values) (io.ReadCloser, error) {
	if c.Tool != "" {
		params.Set("tool", c.Tool)
	}
	if c.Email != "" {
		params.Set("email", c.Email)
	}
	if c.APIKey != "" {
		params.Set("api_key", c.APIKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base()+"/"+endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, pfx.Err(err)
	}
	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, pfx.Err(err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("entrez: %s returned %s", endpoint, resp.Status)
	}
	return resp.Body, nil
}

// Search runs an ESearch query against db, storing the result set on
// the history server for retrieval by a subsequent fetch.
func (c *Client) Search(ctx context.Context, db, term string) (History, error) {
	body, err := c.get(ctx, "esearch.fcgi", url.Values{
		"db":         {db},
		"term":       {term},
		"usehistory": {"y"},
	})
	if err != nil {
		return History{}, err
	}
	defer body.Close()

	var res searchResult
	dec := xml.NewDecoder(body)
	dec.CharsetReader = charset.NewReaderLabel
	if err := dec.Decode(&res); err != nil {
		return History{}, pfx.Err(err)
	}
	return History{Count: res.Count, QueryKey: res.QueryKey, WebEnv: res.WebEnv}, nil
}

// RunInfo retrieves the runinfo table for a history result set. The
// returned records include the header row; rows may have ragged widths.
func (c *Client) RunInfo(ctx context.Context, db string, h History) ([][]string, error) {
	body, err := c.get(ctx, "efetch.fcgi", url.Values{
		"db":        {db},
		"query_key": {h.QueryKey},
		"WebEnv":    {h.WebEnv},
		"rettype":   {"runinfo"},
		"retmode":   {"text"},
	})
	if err != nil {
		return nil, err
	}
	defer body.Close()

	r := csv.NewReader(body)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, pfx.Err(err)
	}
	return records, nil
}

// RunAccessions returns the SRA run accessions for the given BioProject
// in the order the runinfo table lists them. Duplicate entries are
// retained. A project with no discoverable runs yields an empty slice
// and no error; callers decide whether that is fatal.
func (c *Client) RunAccessions(ctx context.Context, bioProject string) ([]string, error) {
	h, err := c.Search(ctx, "sra", bioProject+"[BioProject]")
	if err != nil {
		return nil, err
	}
	if h.Count == 0 {
		return nil, nil
	}

	records, err := c.RunInfo(ctx, "sra", h)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("entrez: empty runinfo table for %q", bioProject)
	}

	run := -1
	for i, name := range records[0] {
		if name == "Run" {
			run = i
			break
		}
	}
	if run < 0 {
		return nil, fmt.Errorf("entrez: runinfo table for %q has no Run column", bioProject)
	}

	var accs []string
	for _, rec := range records[1:] {
		if run >= len(rec) {
			continue
		}
		if v := strings.TrimSpace(rec[run]); runPattern.MatchString(v) {
			accs = append(accs, v)
		}
	}
	return accs, nil
}

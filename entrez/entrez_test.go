// Copyright ©2025 The qiime-pipes Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package entrez

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const searchResponse = `<?xml version="1.0" encoding="UTF-8" ?>
<!DOCTYPE eSearchResult PUBLIC "-//NLM//DTD esearch 20060628//EN" "https://eutils.ncbi.nlm.nih.gov/eutils/dtd/20060628/esearch.dtd">
<eSearchResult>
	<Count>4</Count>
	<RetMax>4</RetMax>
	<RetStart>0</RetStart>
	<QueryKey>1</QueryKey>
	<WebEnv>MCID_TEST</WebEnv>
	<IdList>
		<Id>100</Id>
		<Id>101</Id>
		<Id>102</Id>
		<Id>103</Id>
	</IdList>
</eSearchResult>
`

const runInfoResponse = `Run,ReleaseDate,spots,bases,BioProject
SRR1000002,2021-03-01,100,15000,PRJNA000001
SRR1000001,2021-03-01,200,30000,PRJNA000001
not-a-run,2021-03-01,0,0,PRJNA000001
SRR1000002,2021-03-01,100,15000,PRJNA000001
`

func testServer(t *testing.T, search, runinfo string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/esearch.fcgi", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "sra", r.URL.Query().Get("db"))
		assert.Equal(t, "y", r.URL.Query().Get("usehistory"))
		fmt.Fprint(w, search)
	})
	mux.HandleFunc("/efetch.fcgi", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "runinfo", r.URL.Query().Get("rettype"))
		assert.Equal(t, "1", r.URL.Query().Get("query_key"))
		assert.Equal(t, "MCID_TEST", r.URL.Query().Get("WebEnv"))
		fmt.Fprint(w, runinfo)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestSearch(t *testing.T) {
	srv := testServer(t, searchResponse, runInfoResponse)
	c := Client{BaseURL: srv.URL}

	h, err := c.Search(context.Background(), "sra", "PRJNA000001[BioProject]")
	require.NoError(t, err)
	assert.Equal(t, History{Count: 4, QueryKey: "1", WebEnv: "MCID_TEST"}, h)
}

// Accessions come back in runinfo row order, duplicates retained and
// non-run fields filtered out.
func TestRunAccessions(t *testing.T) {
	srv := testServer(t, searchResponse, runInfoResponse)
	c := Client{BaseURL: srv.URL}

	accs, err := c.RunAccessions(context.Background(), "PRJNA000001")
	require.NoError(t, err)
	assert.Equal(t, []string{"SRR1000002", "SRR1000001", "SRR1000002"}, accs)
}

func TestRunAccessionsNoResults(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/esearch.fcgi", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<?xml version="1.0" encoding="UTF-8" ?>
<eSearchResult><Count>0</Count><QueryKey></QueryKey><WebEnv></WebEnv><IdList></IdList></eSearchResult>`)
	})
	mux.HandleFunc("/efetch.fcgi", func(w http.ResponseWriter, r *http.Request) {
		t.Error("efetch must not be called when the search is empty")
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := Client{BaseURL: srv.URL}
	accs, err := c.RunAccessions(context.Background(), "PRJNA999999")
	require.NoError(t, err)
	assert.Empty(t, accs)
}

func TestRunAccessionsMissingRunColumn(t *testing.T) {
	srv := testServer(t, searchResponse, "spots,bases\n1,2\n")
	c := Client{BaseURL: srv.URL}

	_, err := c.RunAccessions(context.Background(), "PRJNA000001")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no Run column")
}

func TestServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := Client{BaseURL: srv.URL}
	_, err := c.Search(context.Background(), "sra", "PRJNA000001[BioProject]")
	require.Error(t, err)
}

package cosmos

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hashicorp-forge/cosmosrest/pkg/cosmos/auth"
)

const testKey = "C2y6yDjf5/R+ob0N8A7Cgv30VRDJIWEHLM+4QDU5DE2nQ9nDuVTqobD4b8mGGyPMbIZnqyMsEcaGQy67XIw/Jw=="

var testNow = time.Date(2017, time.April, 27, 0, 51, 12, 0, time.UTC)

const testDate = "thu, 27 apr 2017 00:51:12 gmt"

func fixedClock() time.Time { return testNow }

func newTestBuilder(t *testing.T) *RequestBuilder {
	t.Helper()
	b, err := NewRequestBuilder("https://orders.documents.azure.com:443/", auth.Credentials{Key: testKey}, fixedClock)
	require.NoError(t, err)
	return b
}

func sign(t *testing.T, verb, path string) string {
	t.Helper()
	token, err := auth.Sign(verb, path, testDate, testKey, auth.KeyTypeMaster, auth.DefaultTokenVersion)
	require.NoError(t, err)
	return token
}

func TestNewRequestBuilder(t *testing.T) {
	_, err := NewRequestBuilder("ftp://orders", auth.Credentials{Key: testKey}, nil)
	assert.Error(t, err)

	_, err = NewRequestBuilder("://", auth.Credentials{Key: testKey}, nil)
	assert.Error(t, err)

	b, err := NewRequestBuilder("https://localhost:8081", auth.Credentials{Key: testKey}, nil)
	require.NoError(t, err)
	assert.NotNil(t, b.now)
}

func TestBuild_GetItem(t *testing.T) {
	b := newTestBuilder(t)
	c := MustNewContainer("orders", "open")

	req, err := b.Build(OpGetItem, c, RequestOptions{ID: "o-1", PartitionKey: "customer-9"})
	require.NoError(t, err)

	assert.Equal(t, "GET", req.Method)
	assert.Equal(t, "https://orders.documents.azure.com:443/dbs/orders/colls/open/docs/o-1", req.URL)
	assert.Equal(t, "dbs/orders/colls/open/docs/o-1", req.Path)
	assert.Nil(t, req.Body)

	want := Headers{
		{Name: "Authorization", Value: sign(t, "GET", "dbs/orders/colls/open/docs/o-1")},
		{Name: "Accept", Value: "application/json"},
		{Name: "x-ms-date", Value: testDate},
		{Name: "x-ms-version", Value: APIVersion},
		{Name: "x-ms-documentdb-partitionkey", Value: `["customer-9"]`},
	}
	if diff := cmp.Diff(want, req.Headers); diff != "" {
		t.Errorf("headers mismatch (-want +got):\n%s", diff)
	}
}

func TestBuild_GetItems(t *testing.T) {
	b := newTestBuilder(t)
	c := MustNewContainer("orders", "open")

	t.Run("default page size", func(t *testing.T) {
		req, err := b.Build(OpGetItems, c, RequestOptions{})
		require.NoError(t, err)

		assert.Equal(t, "GET", req.Method)
		assert.Equal(t, "https://orders.documents.azure.com:443/dbs/orders/colls/open/docs", req.URL)

		want := Headers{
			{Name: "Authorization", Value: sign(t, "GET", "dbs/orders/colls/open/docs")},
			{Name: "Accept", Value: "application/json"},
			{Name: "x-ms-date", Value: testDate},
			{Name: "x-ms-version", Value: APIVersion},
			{Name: "x-ms-max-item-count", Value: "100"},
		}
		if diff := cmp.Diff(want, req.Headers); diff != "" {
			t.Errorf("headers mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("continuation is json encoded", func(t *testing.T) {
		token := &ContinuationToken{Token: "+RID:~abc#RT:1", Range: Range{Min: "", Max: "FF"}}

		req, err := b.Build(OpGetItems, c, RequestOptions{MaxItemCount: 10, Continuation: token})
		require.NoError(t, err)

		got, ok := req.Headers.Get(HeaderContinuation)
		require.True(t, ok)
		assert.Equal(t, `{"token":"+RID:~abc#RT:1","range":{"min":"","max":"FF"}}`, got)

		count, _ := req.Headers.Get(HeaderMaxItemCount)
		assert.Equal(t, "10", count)

		_, ok = req.Headers.Get(HeaderPartitionKey)
		assert.False(t, ok)
	})
}

func TestBuild_Query(t *testing.T) {
	b := newTestBuilder(t)
	c := MustNewContainer("orders", "open")

	req, err := b.Build(OpQuery, c, RequestOptions{
		Query: "SELECT * FROM o WHERE o.status = @status AND o.total > @min",
		Parameters: []QueryParam{
			{Name: "status", Value: "open"},
			{Name: "min", Value: 10},
		},
		EnableCrossPartition: true,
	})
	require.NoError(t, err)

	assert.Equal(t, "POST", req.Method)
	assert.Equal(t, "https://orders.documents.azure.com:443/dbs/orders/colls/open/docs", req.URL)
	assert.JSONEq(t, `{
		"query": "SELECT * FROM o WHERE o.status = @status AND o.total > @min",
		"parameters": [
			{"name": "@status", "value": "open"},
			{"name": "@min", "value": 10}
		]
	}`, string(req.Body))

	want := Headers{
		{Name: "Authorization", Value: sign(t, "POST", "dbs/orders/colls/open/docs")},
		{Name: "Accept", Value: "application/json"},
		{Name: "x-ms-date", Value: testDate},
		{Name: "x-ms-version", Value: APIVersion},
		{Name: "x-ms-documentdb-isquery", Value: "true"},
		{Name: "Content-Type", Value: "application/query+json"},
		{Name: "x-ms-documentdb-query-enablecrosspartition", Value: "true"},
	}
	if diff := cmp.Diff(want, req.Headers); diff != "" {
		t.Errorf("headers mismatch (-want +got):\n%s", diff)
	}
}

func TestBuild_QueryWithoutParameters(t *testing.T) {
	b := newTestBuilder(t)

	req, err := b.Build(OpQuery, MustNewContainer("orders", "open"), RequestOptions{Query: "SELECT * FROM o"})
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(req.Body, &body))
	assert.Equal(t, []interface{}{}, body["parameters"])
}

func TestBuild_Writes(t *testing.T) {
	b := newTestBuilder(t)
	c := MustNewContainer("orders", "open")
	doc := map[string]interface{}{"id": "o-1", "customer": "customer-9"}

	tests := []struct {
		name       string
		op         Operation
		opts       RequestOptions
		wantMethod string
		wantPath   string
		wantUpsert bool
	}{
		{
			name:       "create",
			op:         OpCreateItem,
			opts:       RequestOptions{Document: doc, PartitionKey: "customer-9"},
			wantMethod: "POST",
			wantPath:   "dbs/orders/colls/open/docs",
		},
		{
			name:       "upsert",
			op:         OpUpsertItem,
			opts:       RequestOptions{Document: doc, PartitionKey: "customer-9"},
			wantMethod: "POST",
			wantPath:   "dbs/orders/colls/open/docs",
			wantUpsert: true,
		},
		{
			name:       "replace",
			op:         OpReplaceItem,
			opts:       RequestOptions{ID: "o-1", Document: doc, PartitionKey: "customer-9"},
			wantMethod: "PUT",
			wantPath:   "dbs/orders/colls/open/docs/o-1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := b.Build(tt.op, c, tt.opts)
			require.NoError(t, err)

			assert.Equal(t, tt.wantMethod, req.Method)
			assert.Equal(t, tt.wantPath, req.Path)
			assert.JSONEq(t, `{"id":"o-1","customer":"customer-9"}`, string(req.Body))

			authz, _ := req.Headers.Get(HeaderAuthorization)
			assert.Equal(t, sign(t, tt.wantMethod, tt.wantPath), authz)

			pk, _ := req.Headers.Get(HeaderPartitionKey)
			assert.Equal(t, `["customer-9"]`, pk)

			ct, _ := req.Headers.Get(HeaderContentType)
			assert.Equal(t, "application/json", ct)

			_, upsert := req.Headers.Get(HeaderIsUpsert)
			assert.Equal(t, tt.wantUpsert, upsert)
		})
	}
}

func TestBuild_PartitionKeyEncoding(t *testing.T) {
	b := newTestBuilder(t)
	c := MustNewContainer("orders", "open")

	tests := []struct {
		name string
		pk   interface{}
		want string
	}{
		{name: "string", pk: "a\"b", want: `["a\"b"]`},
		{name: "number", pk: 42, want: `[42]`},
		{name: "bool", pk: true, want: `[true]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := b.Build(OpGetItem, c, RequestOptions{ID: "o-1", PartitionKey: tt.pk})
			require.NoError(t, err)
			got, _ := req.Headers.Get(HeaderPartitionKey)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuild_EscapesURLButSignsRawPath(t *testing.T) {
	b := newTestBuilder(t)

	req, err := b.Build(OpGetItem, MustNewContainer("orders", "open"), RequestOptions{ID: "order 1", PartitionKey: "p"})
	require.NoError(t, err)

	assert.Equal(t, "https://orders.documents.azure.com:443/dbs/orders/colls/open/docs/order%201", req.URL)
	assert.Equal(t, "dbs/orders/colls/open/docs/order 1", req.Path)
}

func TestBuild_FreshSignaturePerRequest(t *testing.T) {
	now := testNow
	b, err := NewRequestBuilder("https://orders.documents.azure.com:443/", auth.Credentials{Key: testKey}, func() time.Time {
		now = now.Add(time.Second)
		return now
	})
	require.NoError(t, err)
	c := MustNewContainer("orders", "open")

	first, err := b.Build(OpGetItems, c, RequestOptions{})
	require.NoError(t, err)
	second, err := b.Build(OpGetItems, c, RequestOptions{})
	require.NoError(t, err)

	a1, _ := first.Headers.Get(HeaderAuthorization)
	a2, _ := second.Headers.Get(HeaderAuthorization)
	assert.NotEqual(t, a1, a2)

	var count int
	for _, h := range first.Headers {
		if h.Name == HeaderAuthorization {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestBuild_InvalidInput(t *testing.T) {
	b := newTestBuilder(t)
	c := MustNewContainer("orders", "open")

	tests := []struct {
		name      string
		op        Operation
		container Container
		opts      RequestOptions
		wantMsgs  []string
	}{
		{
			name:      "missing container",
			op:        OpGetItems,
			container: Container{},
			wantMsgs:  []string{"container is required"},
		},
		{
			name:      "missing id and partition key",
			op:        OpGetItem,
			container: c,
			wantMsgs:  []string{"document id is required", "partition key is required"},
		},
		{
			name:      "typed nil partition key",
			op:        OpGetItem,
			container: c,
			opts:      RequestOptions{ID: "o-1", PartitionKey: (*string)(nil)},
			wantMsgs:  []string{"partition key is required"},
		},
		{
			name:      "nil slice partition key",
			op:        OpCreateItem,
			container: c,
			opts:      RequestOptions{Document: map[string]interface{}{"id": "o-1"}, PartitionKey: []string(nil)},
			wantMsgs:  []string{"partition key is required"},
		},
		{
			name:      "id with slash",
			op:        OpGetItem,
			container: c,
			opts:      RequestOptions{ID: "a/b", PartitionKey: "p"},
			wantMsgs:  []string{"document id may not contain"},
		},
		{
			name:      "create without document",
			op:        OpCreateItem,
			container: c,
			opts:      RequestOptions{PartitionKey: "p"},
			wantMsgs:  []string{"document has no id"},
		},
		{
			name:      "create document without id",
			op:        OpCreateItem,
			container: c,
			opts:      RequestOptions{Document: map[string]interface{}{"status": "open"}, PartitionKey: "p"},
			wantMsgs:  []string{"document has no id"},
		},
		{
			name:      "replace with mismatched id",
			op:        OpReplaceItem,
			container: c,
			opts:      RequestOptions{ID: "o-1", Document: map[string]interface{}{"id": "o-2"}, PartitionKey: "p"},
			wantMsgs:  []string{`"o-2" does not match "o-1"`},
		},
		{
			name:      "empty query",
			op:        OpQuery,
			container: c,
			opts:      RequestOptions{Query: "  "},
			wantMsgs:  []string{"query text is required"},
		},
		{
			name:      "unknown operation",
			op:        Operation(99),
			container: c,
			wantMsgs:  []string{"unknown operation 99"},
		},
		{
			name:      "unencodable document",
			op:        OpCreateItem,
			container: c,
			opts:      RequestOptions{Document: map[string]interface{}{"id": "o-1", "ch": make(chan int)}, PartitionKey: "p"},
			wantMsgs:  []string{"failed to encode body"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := b.Build(tt.op, tt.container, tt.opts)
			require.Error(t, err)
			assert.Nil(t, req)
			assert.True(t, errors.Is(err, ErrInvalidInput))
			for _, msg := range tt.wantMsgs {
				assert.Contains(t, err.Error(), msg)
			}
		})
	}
}

func TestBuild_InvalidKey(t *testing.T) {
	b, err := NewRequestBuilder("https://orders.documents.azure.com:443/", auth.Credentials{Key: "%%%"}, fixedClock)
	require.NoError(t, err)

	req, err := b.Build(OpGetItems, MustNewContainer("orders", "open"), RequestOptions{})
	require.Error(t, err)
	assert.Nil(t, req)
	assert.True(t, errors.Is(err, auth.ErrInvalidKey))
}

func TestOperation_String(t *testing.T) {
	assert.Equal(t, "GetDocument", OpGetItem.String())
	assert.Equal(t, "Query", OpQuery.String())
	assert.Equal(t, "Operation(42)", Operation(42).String())
}

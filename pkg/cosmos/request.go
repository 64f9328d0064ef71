package cosmos

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/hashicorp-forge/cosmosrest/pkg/cosmos/auth"
	"github.com/hashicorp-forge/cosmosrest/pkg/docid"
)

// APIVersion is the REST protocol version sent with every request.
const APIVersion = "2018-12-31"

// DefaultMaxItemCount is the page size used when a listing does not set one.
const DefaultMaxItemCount = 100

// Request headers.
const (
	HeaderAuthorization        = "Authorization"
	HeaderAccept               = "Accept"
	HeaderContentType          = "Content-Type"
	HeaderDate                 = "x-ms-date"
	HeaderVersion              = "x-ms-version"
	HeaderPartitionKey         = "x-ms-documentdb-partitionkey"
	HeaderMaxItemCount         = "x-ms-max-item-count"
	HeaderIsQuery              = "x-ms-documentdb-isquery"
	HeaderIsUpsert             = "x-ms-documentdb-is-upsert"
	HeaderEnableCrossPartition = "x-ms-documentdb-query-enablecrosspartition"
)

// Content types.
const (
	ContentTypeJSON  = "application/json"
	ContentTypeQuery = "application/query+json"
)

// Operation is a logical document operation.
type Operation int

const (
	OpGetItem Operation = iota + 1
	OpGetItems
	OpQuery
	OpCreateItem
	OpUpsertItem
	OpReplaceItem
)

func (o Operation) String() string {
	switch o {
	case OpGetItem:
		return "GetDocument"
	case OpGetItems:
		return "GetDocuments"
	case OpQuery:
		return "Query"
	case OpCreateItem:
		return "CreateDocument"
	case OpUpsertItem:
		return "UpsertDocument"
	case OpReplaceItem:
		return "ReplaceDocument"
	default:
		return "Operation(" + strconv.Itoa(int(o)) + ")"
	}
}

// itemScoped operations address a single logical partition.
func (o Operation) itemScoped() bool {
	switch o {
	case OpGetItem, OpCreateItem, OpUpsertItem, OpReplaceItem:
		return true
	}
	return false
}

func (o Operation) writesDocument() bool {
	switch o {
	case OpCreateItem, OpUpsertItem, OpReplaceItem:
		return true
	}
	return false
}

// QueryParam is a named query parameter. The name is sent prefixed with "@".
type QueryParam struct {
	Name  string
	Value interface{}
}

// RequestOptions holds the per-operation inputs of a request. Fields that do
// not apply to an operation are ignored.
type RequestOptions struct {
	// ID of the addressed document (get, replace).
	ID string

	// PartitionKey value of the addressed document (get, create, upsert, replace).
	PartitionKey interface{}

	// Document to write (create, upsert, replace).
	Document interface{}

	// Query text and its ordered parameters (query).
	Query      string
	Parameters []QueryParam

	// MaxItemCount is the page size (get-items, query).
	MaxItemCount int

	// Continuation resumes a paged listing (get-items, query).
	Continuation *ContinuationToken

	// EnableCrossPartition allows a query to fan out across partitions.
	EnableCrossPartition bool
}

// RequestBuilder turns logical operations into signed requests.
type RequestBuilder struct {
	host        *url.URL
	credentials auth.Credentials
	now         func() time.Time
}

// NewRequestBuilder creates a RequestBuilder for the account at host.
// now defaults to time.Now.
func NewRequestBuilder(host string, credentials auth.Credentials, now func() time.Time) (*RequestBuilder, error) {
	u, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("invalid host: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("host must use http or https scheme, got: %q", u.Scheme)
	}
	if now == nil {
		now = time.Now
	}
	return &RequestBuilder{
		host:        u,
		credentials: credentials,
		now:         now,
	}, nil
}

// Build validates the inputs of op, signs the request and assembles its
// headers and body.
func (b *RequestBuilder) Build(op Operation, c Container, opts RequestOptions) (*Request, error) {
	if err := validateRequest(op, c, opts); err != nil {
		return nil, err
	}

	method, path, segments := route(op, c, opts.ID)

	var body []byte
	var err error
	switch {
	case op == OpQuery:
		body, err = queryBody(opts.Query, opts.Parameters)
	case op.writesDocument():
		body, err = json.Marshal(opts.Document)
	}
	if err != nil {
		return nil, invalidInput(op.String(), fmt.Sprintf("failed to encode body: %v", err))
	}

	var partitionKey string
	if op.itemScoped() {
		pk, err := json.Marshal([]interface{}{opts.PartitionKey})
		if err != nil {
			return nil, invalidInput(op.String(), fmt.Sprintf("failed to encode partition key: %v", err))
		}
		partitionKey = string(pk)
	}

	var continuation string
	if opts.Continuation != nil && (op == OpGetItems || op == OpQuery) {
		continuation, err = opts.Continuation.Encode()
		if err != nil {
			return nil, invalidInput(op.String(), err.Error())
		}
	}

	date := auth.FormatDate(b.now())
	token, err := b.credentials.Sign(method, path, date)
	if err != nil {
		return nil, &Error{Op: op.String(), Err: err, Msg: "failed to sign request"}
	}

	headers := Headers{
		{Name: HeaderAuthorization, Value: token},
		{Name: HeaderAccept, Value: ContentTypeJSON},
		{Name: HeaderDate, Value: date},
		{Name: HeaderVersion, Value: APIVersion},
	}

	if op.itemScoped() {
		headers = append(headers, Header{Name: HeaderPartitionKey, Value: partitionKey})
	}

	switch op {
	case OpGetItems:
		headers = append(headers, Header{Name: HeaderMaxItemCount, Value: strconv.Itoa(maxItemCount(opts.MaxItemCount))})
	case OpQuery:
		headers = append(headers,
			Header{Name: HeaderIsQuery, Value: "true"},
			Header{Name: HeaderContentType, Value: ContentTypeQuery},
		)
		if opts.MaxItemCount > 0 {
			headers = append(headers, Header{Name: HeaderMaxItemCount, Value: strconv.Itoa(opts.MaxItemCount)})
		}
		if opts.EnableCrossPartition {
			headers = append(headers, Header{Name: HeaderEnableCrossPartition, Value: "true"})
		}
	case OpCreateItem, OpReplaceItem:
		headers = append(headers, Header{Name: HeaderContentType, Value: ContentTypeJSON})
	case OpUpsertItem:
		headers = append(headers,
			Header{Name: HeaderContentType, Value: ContentTypeJSON},
			Header{Name: HeaderIsUpsert, Value: "true"},
		)
	}

	if continuation != "" {
		headers = append(headers, Header{Name: HeaderContinuation, Value: continuation})
	}

	return &Request{
		Method:  method,
		URL:     b.host.JoinPath(segments...).String(),
		Path:    path,
		Headers: headers,
		Body:    body,
	}, nil
}

func maxItemCount(n int) int {
	if n <= 0 {
		return DefaultMaxItemCount
	}
	return n
}

// route returns the verb, the unescaped resource path used for signing and
// the escaped URL path segments of op.
func route(op Operation, c Container, id string) (method, path string, segments []string) {
	segments = []string{
		"dbs", url.PathEscape(c.Database()),
		"colls", url.PathEscape(c.Name()),
		"docs",
	}

	switch op {
	case OpGetItem:
		return http.MethodGet, c.DocumentPath(id), append(segments, url.PathEscape(id))
	case OpReplaceItem:
		return http.MethodPut, c.DocumentPath(id), append(segments, url.PathEscape(id))
	case OpGetItems:
		return http.MethodGet, c.DocumentsPath(), segments
	default:
		return http.MethodPost, c.DocumentsPath(), segments
	}
}

type queryRequest struct {
	Query      string           `json:"query"`
	Parameters []queryParameter `json:"parameters"`
}

type queryParameter struct {
	Name  string      `json:"name"`
	Value interface{} `json:"value"`
}

func queryBody(query string, params []QueryParam) ([]byte, error) {
	req := queryRequest{
		Query:      query,
		Parameters: make([]queryParameter, 0, len(params)),
	}
	for _, p := range params {
		req.Parameters = append(req.Parameters, queryParameter{Name: "@" + p.Name, Value: p.Value})
	}
	return json.Marshal(req)
}

// validateRequest reports every missing input of op at once.
func validateRequest(op Operation, c Container, opts RequestOptions) error {
	var result *multierror.Error

	if op < OpGetItem || op > OpReplaceItem {
		result = multierror.Append(result, fmt.Errorf("unknown operation %d", int(op)))
	}

	if c.IsZero() {
		result = multierror.Append(result, fmt.Errorf("container is required"))
	}

	if op == OpGetItem || op == OpReplaceItem {
		if opts.ID == "" {
			result = multierror.Append(result, fmt.Errorf("document id is required"))
		} else if strings.ContainsAny(opts.ID, `/\?#`) {
			result = multierror.Append(result, fmt.Errorf(`document id may not contain '/', '\', '?' or '#'`))
		}
	}

	if op.itemScoped() && isNil(opts.PartitionKey) {
		result = multierror.Append(result, fmt.Errorf("partition key is required"))
	}

	if op.writesDocument() {
		id, err := docid.IDOf(opts.Document)
		switch {
		case err != nil:
			result = multierror.Append(result, fmt.Errorf("document: %w", err))
		case op == OpReplaceItem && opts.ID != "" && id != opts.ID:
			result = multierror.Append(result, fmt.Errorf("document id %q does not match %q", id, opts.ID))
		}
	}

	if op == OpQuery && strings.TrimSpace(opts.Query) == "" {
		result = multierror.Append(result, fmt.Errorf("query text is required"))
	}

	if result == nil {
		return nil
	}
	result.ErrorFormat = joinErrors
	return invalidInput(op.String(), result.Error())
}

// isNil reports whether v is nil or a typed nil such as (*string)(nil).
func isNil(v interface{}) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

func joinErrors(errs []error) string {
	msgs := make([]string, len(errs))
	for i, err := range errs {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

package cosmos

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/hashicorp-forge/cosmosrest/pkg/cosmos/auth"
	"github.com/hashicorp-forge/cosmosrest/pkg/cosmos/config"
)

// Options configures a Client.
type Options struct {
	// Host is the account endpoint, e.g. "https://myaccount.documents.azure.com:443/".
	Host string

	// Credentials sign every request.
	Credentials auth.Credentials

	// Transport executes requests. Default: an HTTPTransport with default config.
	Transport Transport

	// Logger (optional)
	Logger hclog.Logger

	// Now returns the request date. Default: time.Now.
	Now func() time.Time
}

// Client issues document operations against a Cosmos DB account.
//
// A Client holds no per-call state and is safe for concurrent use.
type Client struct {
	builder   *RequestBuilder
	transport Transport
	logger    hclog.Logger
}

// New creates a new Client.
func New(opts Options) (*Client, error) {
	if opts.Credentials.Key == "" {
		return nil, fmt.Errorf("%w: credentials key is required", auth.ErrInvalidKey)
	}

	builder, err := NewRequestBuilder(opts.Host, opts.Credentials, opts.Now)
	if err != nil {
		return nil, err
	}

	if opts.Logger == nil {
		opts.Logger = hclog.NewNullLogger()
	}
	if opts.Transport == nil {
		opts.Transport = NewHTTPTransport(HTTPTransportConfig{Logger: opts.Logger})
	}

	return &Client{
		builder:   builder,
		transport: opts.Transport,
		logger:    opts.Logger.Named("cosmos"),
	}, nil
}

// NewFromConfig creates a Client and its HTTPTransport from a validated
// configuration.
func NewFromConfig(cfg *config.Config, logger hclog.Logger) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	transport := NewHTTPTransport(HTTPTransportConfig{
		Timeout:    cfg.TimeoutDuration(),
		TLSVerify:  cfg.TLSVerify,
		MaxRetries: cfg.MaxRetries,
		RetryDelay: cfg.RetryDelayDuration(),
		Tracing:    cfg.Tracing,
		Logger:     logger,
	})

	return New(Options{
		Host:        cfg.Host,
		Credentials: cfg.Credentials(),
		Transport:   transport,
		Logger:      logger,
	})
}

// GetDocument reads the document with the given id and partition key.
func (c *Client) GetDocument(ctx context.Context, container Container, id string, partitionKey interface{}) (Outcome, *Result, error) {
	return c.do(ctx, OpGetItem, container, RequestOptions{
		ID:           id,
		PartitionKey: partitionKey,
	})
}

// ListOptions controls a document listing.
type ListOptions struct {
	// MaxItemCount is the page size. Default: DefaultMaxItemCount
	MaxItemCount int

	// Continuation is the token returned by the previous page, if any.
	Continuation *ContinuationToken
}

// GetDocuments reads one page of the documents in container.
func (c *Client) GetDocuments(ctx context.Context, container Container, opts ListOptions) (Outcome, *Result, error) {
	return c.do(ctx, OpGetItems, container, RequestOptions{
		MaxItemCount: opts.MaxItemCount,
		Continuation: opts.Continuation,
	})
}

// QueryOptions controls a query.
type QueryOptions struct {
	MaxItemCount         int
	Continuation         *ContinuationToken
	EnableCrossPartition bool
}

// Query runs a SQL query with ordered named parameters against container.
func (c *Client) Query(ctx context.Context, container Container, query string, params []QueryParam, opts QueryOptions) (Outcome, *Result, error) {
	return c.do(ctx, OpQuery, container, RequestOptions{
		Query:                query,
		Parameters:           params,
		MaxItemCount:         opts.MaxItemCount,
		Continuation:         opts.Continuation,
		EnableCrossPartition: opts.EnableCrossPartition,
	})
}

// CreateDocument stores doc in container. doc must carry an id, see docid.IDOf.
func (c *Client) CreateDocument(ctx context.Context, container Container, doc interface{}, partitionKey interface{}) (Outcome, *Result, error) {
	return c.do(ctx, OpCreateItem, container, RequestOptions{
		Document:     doc,
		PartitionKey: partitionKey,
	})
}

// UpsertDocument creates doc or replaces the document with the same id.
func (c *Client) UpsertDocument(ctx context.Context, container Container, doc interface{}, partitionKey interface{}) (Outcome, *Result, error) {
	return c.do(ctx, OpUpsertItem, container, RequestOptions{
		Document:     doc,
		PartitionKey: partitionKey,
	})
}

// ReplaceDocument replaces the document with the given id by doc.
func (c *Client) ReplaceDocument(ctx context.Context, container Container, id string, doc interface{}, partitionKey interface{}) (Outcome, *Result, error) {
	return c.do(ctx, OpReplaceItem, container, RequestOptions{
		ID:           id,
		Document:     doc,
		PartitionKey: partitionKey,
	})
}

func (c *Client) do(ctx context.Context, op Operation, container Container, opts RequestOptions) (Outcome, *Result, error) {
	req, err := c.builder.Build(op, container, opts)
	if err != nil {
		return OutcomeError, nil, err
	}

	c.logger.Debug("sending request",
		"op", op.String(),
		"method", req.Method,
		"path", req.Path,
	)

	resp, err := c.transport.Send(ctx, req)
	if err != nil {
		c.logger.Error("transport failure",
			"op", op.String(),
			"path", req.Path,
			"error", err,
		)
		return OutcomeError, nil, &Error{Op: op.String(), Err: err, Msg: "transport failure"}
	}

	outcome, result, err := Classify(resp)
	if err != nil {
		c.logger.Debug("response not classified",
			"op", op.String(),
			"status", resp.StatusCode,
			"error", err,
		)
		return outcome, nil, fmt.Errorf("%s: %w", op, err)
	}

	c.logger.Debug("received response",
		"op", op.String(),
		"status", resp.StatusCode,
		"outcome", outcome.String(),
		"request_charge", result.Properties.RequestCharge,
		"count", result.Count,
	)

	return outcome, result, nil
}

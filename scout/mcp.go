package scout

import (
	"context"
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hazyhaar/seatwatch/kit"
	"github.com/hazyhaar/seatwatch/mcda"
	"github.com/hazyhaar/seatwatch/prefs"
)

// RegisterMCP registers all seatwatch tools on an MCP server.
func (s *Service) RegisterMCP(srv *mcp.Server) {
	s.registerOpen(srv)
	s.registerScan(srv)
	s.registerSeats(srv)
	s.registerSetWeights(srv)
	s.registerSetFilters(srv)
	s.registerStatus(srv)
	s.registerClick(srv)
	s.registerHighlight(srv)
}

// register wires one tool through the shared instrumentation chain
// before handing it to the transport glue.
func (s *Service) register(srv *mcp.Server, tool *mcp.Tool, endpoint kit.Endpoint, decode func(*mcp.CallToolRequest) (*kit.MCPDecodeResult, error)) {
	kit.RegisterMCPTool(srv, tool, kit.Chain(s.instrument(tool.Name))(endpoint), decode)
}

// instrument stamps a fresh request ID and the current page session
// onto the context, then logs the call once the endpoint returns.
func (s *Service) instrument(tool string) kit.Middleware {
	return func(next kit.Endpoint) kit.Endpoint {
		return func(ctx context.Context, req any) (any, error) {
			s.mu.Lock()
			session := s.session
			s.mu.Unlock()
			ctx = kit.WithRequestID(ctx, s.ids())
			ctx = kit.WithSessionID(ctx, session)

			resp, err := next(ctx, req)
			s.logger.Debug("scout: tool call",
				"tool", tool,
				"request_id", kit.GetRequestID(ctx),
				"session_id", kit.GetSessionID(ctx),
				"transport", kit.GetTransport(ctx),
				"error", err)
			return resp, err
		}
	}
}

func inputSchema(properties map[string]any, required []string) map[string]any {
	sch := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		sch["required"] = required
	}
	return sch
}

func (s *Service) registerOpen(srv *mcp.Server) {
	type req struct {
		URL    string `json:"url"`
		Vendor string `json:"vendor"`
	}

	tool := &mcp.Tool{
		Name:        "seatwatch_open",
		Description: "Open a ticket marketplace event page in the managed browser",
		InputSchema: inputSchema(map[string]any{
			"url":    map[string]any{"type": "string", "description": "Event page URL"},
			"vendor": map[string]any{"type": "string", "description": "Vendor override: ticketmaster, axs, viagogo"},
		}, []string{"url"}),
	}

	endpoint := func(ctx context.Context, r any) (any, error) {
		p := r.(*req)
		if err := s.Open(ctx, p.URL, p.Vendor); err != nil {
			return nil, err
		}
		return s.Status(), nil
	}

	s.register(srv, tool, endpoint, decodeInto[req])
}

func (s *Service) registerScan(srv *mcp.Server) {
	type req struct{}

	tool := &mcp.Tool{
		Name:        "seatwatch_scan",
		Description: "Scan the open page to expose and extract all listings",
		InputSchema: inputSchema(map[string]any{}, nil),
	}

	endpoint := func(ctx context.Context, _ any) (any, error) {
		if err := s.Scan(ctx); err != nil {
			return nil, err
		}
		return s.Status(), nil
	}

	s.register(srv, tool, endpoint, decodeInto[req])
}

func (s *Service) registerSeats(srv *mcp.Server) {
	type req struct{}

	tool := &mcp.Tool{
		Name:        "seatwatch_seats",
		Description: "List the extracted listings with their scores, best first",
		InputSchema: inputSchema(map[string]any{}, nil),
	}

	endpoint := func(_ context.Context, _ any) (any, error) {
		return map[string]any{"seats": s.Seats()}, nil
	}

	s.register(srv, tool, endpoint, decodeInto[req])
}

func (s *Service) registerSetWeights(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "seatwatch_set_weights",
		Description: "Replace the scoring weights and rescore every listing",
		InputSchema: inputSchema(map[string]any{
			"price":        map[string]any{"type": "number", "description": "Price weight"},
			"view_quality": map[string]any{"type": "number", "description": "View quality weight"},
			"proximity":    map[string]any{"type": "number", "description": "Stage proximity weight"},
			"aisle_access": map[string]any{"type": "number", "description": "Aisle access weight"},
		}, nil),
	}

	endpoint := func(ctx context.Context, r any) (any, error) {
		w := r.(*mcda.Weights)
		if err := s.SetWeights(ctx, *w); err != nil {
			return nil, err
		}
		return map[string]any{"weights": *w, "seats": s.Seats()}, nil
	}

	s.register(srv, tool, endpoint, decodeInto[mcda.Weights])
}

func (s *Service) registerSetFilters(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "seatwatch_set_filters",
		Description: "Replace the listing filters (max price, minimum tier, sections)",
		InputSchema: inputSchema(map[string]any{
			"max_price": map[string]any{"type": "number", "description": "Hide listings above this price"},
			"min_tier":  map[string]any{"type": "integer", "description": "Hide listings with a tier above this"},
			"sections":  map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		}, nil),
	}

	endpoint := func(ctx context.Context, r any) (any, error) {
		f := r.(*prefs.Filters)
		if err := s.SetFilters(ctx, *f); err != nil {
			return nil, err
		}
		return map[string]any{"filters": *f, "seats": s.Seats()}, nil
	}

	s.register(srv, tool, endpoint, decodeInto[prefs.Filters])
}

func (s *Service) registerStatus(srv *mcp.Server) {
	type req struct{}

	tool := &mcp.Tool{
		Name:        "seatwatch_status",
		Description: "Report the scan state, open page and listing count",
		InputSchema: inputSchema(map[string]any{}, nil),
	}

	endpoint := func(_ context.Context, _ any) (any, error) {
		return s.Status(), nil
	}

	s.register(srv, tool, endpoint, decodeInto[req])
}

func (s *Service) registerClick(srv *mcp.Server) {
	type req struct {
		Key string `json:"key"`
	}

	tool := &mcp.Tool{
		Name:        "seatwatch_click",
		Description: "Click a listing's card on the live page by content key",
		InputSchema: inputSchema(map[string]any{
			"key": map[string]any{"type": "string", "description": "Listing content key"},
		}, []string{"key"}),
	}

	endpoint := func(ctx context.Context, r any) (any, error) {
		p := r.(*req)
		if err := s.ClickListing(ctx, p.Key); err != nil {
			return nil, err
		}
		return map[string]string{"status": "clicked"}, nil
	}

	s.register(srv, tool, endpoint, decodeInto[req])
}

func (s *Service) registerHighlight(srv *mcp.Server) {
	type req struct {
		Key string `json:"key"`
	}

	tool := &mcp.Tool{
		Name:        "seatwatch_highlight",
		Description: "Highlight a listing's section on the vendor's venue map",
		InputSchema: inputSchema(map[string]any{
			"key": map[string]any{"type": "string", "description": "Listing content key"},
		}, []string{"key"}),
	}

	endpoint := func(ctx context.Context, r any) (any, error) {
		p := r.(*req)
		if err := s.Highlight(ctx, p.Key); err != nil {
			return nil, err
		}
		return map[string]string{"status": "highlighted"}, nil
	}

	s.register(srv, tool, endpoint, decodeInto[req])
}

// decodeInto is the shared decode shape: every tool takes a flat JSON
// object matching one request struct.
func decodeInto[T any](r *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
	var p T
	if len(r.Params.Arguments) > 0 {
		if err := json.Unmarshal(r.Params.Arguments, &p); err != nil {
			return nil, err
		}
	}
	return &kit.MCPDecodeResult{Request: &p}, nil
}

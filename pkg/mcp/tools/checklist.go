package tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/lpcraft/checklist-engine/pkg/apperrors"
	"github.com/lpcraft/checklist-engine/pkg/models"
	"github.com/lpcraft/checklist-engine/pkg/services"
)

// ChecklistToolDeps contains dependencies for the checklist tools.
type ChecklistToolDeps struct {
	ChecklistService services.ChecklistService
	Logger           *zap.Logger
}

// RegisterChecklistTools registers generate_checklist and get_checklist_item.
func RegisterChecklistTools(s *server.MCPServer, deps *ChecklistToolDeps) {
	registerGenerateChecklistTool(s, deps)
	registerGetChecklistItemTool(s, deps)
}

func registerGenerateChecklistTool(s *server.MCPServer, deps *ChecklistToolDeps) {
	tool := mcp.NewTool(
		"generate_checklist",
		mcp.WithDescription(
			"Generate a landing-page content checklist for one or more business genres. "+
				"Returns common items, genre-specific items, optional region-specific and "+
				"compliance items, plus a priority summary.",
		),
		mcp.WithArray(
			"genres",
			mcp.Required(),
			mcp.Description("Genre names, e.g. [\"医療脱毛\"]. Unknown names are ignored."),
			mcp.Items(map[string]any{"type": "string"}),
		),
		mcp.WithString(
			"region",
			mcp.Description("Optional region name, e.g. \"渋谷\""),
		),
		mcp.WithBoolean(
			"seo_optimized",
			mcp.Description("Order items by SEO weight instead of priority (default: false)"),
		),
		mcp.WithBoolean(
			"include_compliance",
			mcp.Description("Include advertising-law compliance items for the genres (default: false)"),
		),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		genres, err := getStringSlice(req, "genres")
		if err != nil {
			return NewErrorResult("invalid_parameters", err.Error()), nil
		}
		if len(genres) == 0 {
			return NewErrorResult("invalid_parameters", "genres must contain at least 1 item"), nil
		}

		checklist, err := deps.ChecklistService.Generate(ctx, models.GenerateChecklistInput{
			Genres:            genres,
			Region:            getOptionalString(req, "region"),
			SEOOptimized:      getOptionalBool(req, "seo_optimized"),
			IncludeCompliance: getOptionalBool(req, "include_compliance"),
		})
		if err != nil {
			if errors.Is(err, apperrors.ErrInvalidInput) {
				return NewErrorResult("invalid_parameters", err.Error()), nil
			}
			return nil, fmt.Errorf("failed to generate checklist: %w", err)
		}

		deps.Logger.Debug("Generated checklist via MCP",
			zap.Strings("genres", genres),
			zap.Int("total_count", checklist.Metadata.TotalCount))

		return jsonResult(checklist)
	})
}

func registerGetChecklistItemTool(s *server.MCPServer, deps *ChecklistToolDeps) {
	tool := mcp.NewTool(
		"get_checklist_item",
		mcp.WithDescription("Fetch a single checklist item of any type by id"),
		mcp.WithString(
			"id",
			mcp.Required(),
			mcp.Description("Checklist item UUID"),
		),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		rawID, err := req.RequireString("id")
		if err != nil {
			return NewErrorResult("invalid_parameters", err.Error()), nil
		}
		id, err := uuid.Parse(trimString(rawID))
		if err != nil {
			return NewErrorResult("invalid_parameters", fmt.Sprintf("id %q is not a valid UUID", rawID)), nil
		}

		item, err := deps.ChecklistService.GetItem(ctx, id)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return NewErrorResult("item_not_found", fmt.Sprintf("no checklist item with id %s", id)), nil
			}
			return nil, fmt.Errorf("failed to get checklist item: %w", err)
		}

		return jsonResult(item)
	})
}

package api

import (
	"github.com/switchyard-io/switchyard/internal/config"
	"github.com/switchyard-io/switchyard/pkg/openapi"
)

// BuildSpec assembles the OpenAPI document for the service route surface.
func BuildSpec(cfg *config.Config) *openapi.Spec {
	spec := openapi.NewSpec(cfg.API.OpenAPI.Title, cfg.Version)
	spec.SetDescription(cfg.API.OpenAPI.Description)
	spec.AddServer(cfg.API.BasePath)

	spec.Components.AddSchemas(map[string]*openapi.Schema{
		"Document": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":         {Type: "string", Format: "uuid"},
				"filename":   {Type: "string"},
				"status":     {Type: "string", Enum: []any{"uploaded", "processing", "ready", "failed"}},
				"language":   {Type: "string", Example: "en"},
				"checksum":   {Type: "string"},
				"size":       {Type: "integer"},
				"created_at": {Type: "string", Format: "date-time"},
				"updated_at": {Type: "string", Format: "date-time"},
			},
		},
		"Department": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"code":           {Type: "string", Example: "procurement"},
				"name":           {Type: "string", Example: "Procurement"},
				"document_count": {Type: "integer"},
			},
		},
		"Classification": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"document_id": {Type: "string", Format: "uuid"},
				"departments": {
					Type:  "array",
					Items: openapi.SchemaRef("DepartmentScore"),
				},
				"diagnostic": {Type: "boolean"},
			},
		},
		"DepartmentScore": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"code":    {Type: "string"},
				"score":   {Type: "number"},
				"reasons": {Type: "array", Items: &openapi.Schema{Type: "string"}},
			},
		},
		"ClassifyRequest": {
			Type:     "object",
			Required: []string{"text"},
			Properties: map[string]*openapi.Schema{
				"text": {Type: "string", Description: "Raw document text to score"},
			},
		},
		"AskRequest": {
			Type:     "object",
			Required: []string{"question"},
			Properties: map[string]*openapi.Schema{
				"question":     {Type: "string"},
				"document_ids": {Type: "array", Items: &openapi.Schema{Type: "string", Format: "uuid"}},
			},
		},
		"AskResponse": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"answer":    {Type: "string"},
				"citations": {Type: "array", Items: openapi.SchemaRef("Citation")},
			},
		},
		"Citation": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"document_id": {Type: "string", Format: "uuid"},
				"section":     {Type: "integer"},
				"score":       {Type: "number"},
			},
		},
		"TranslateRequest": {
			Type:     "object",
			Required: []string{"text"},
			Properties: map[string]*openapi.Schema{
				"text":   {Type: "string"},
				"source": {Type: "string", Enum: []any{"en", "ml"}},
				"target": {Type: "string", Enum: []any{"en", "ml"}},
			},
		},
		"TranslateResponse": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"text":   {Type: "string"},
				"source": {Type: "string"},
				"target": {Type: "string"},
			},
		},
		"Summary": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"document_id": {Type: "string", Format: "uuid"},
				"summary":     {Type: "string"},
				"language":    {Type: "string"},
				"created_at":  {Type: "string", Format: "date-time"},
			},
		},
		"BatchSummaryRequest": {
			Type:     "object",
			Required: []string{"document_ids"},
			Properties: map[string]*openapi.Schema{
				"document_ids": {
					Type:        "array",
					Description: "Up to 10 document IDs",
					Items:       &openapi.Schema{Type: "string", Format: "uuid"},
				},
			},
		},
		"Prompt": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":           {Type: "string", Format: "uuid"},
				"name":         {Type: "string"},
				"stage":        {Type: "string", Enum: []any{"summarize", "translate", "answer"}},
				"instructions": {Type: "string"},
				"active":       {Type: "boolean"},
			},
		},
		"Credentials": {
			Type:     "object",
			Required: []string{"email", "password"},
			Properties: map[string]*openapi.Schema{
				"email":    {Type: "string", Format: "email"},
				"password": {Type: "string"},
			},
		},
	})

	addAuthPaths(spec)
	addDocumentPaths(spec)
	addDepartmentPaths(spec)
	addClassifyPaths(spec)
	addLanguagePaths(spec)
	addPromptPaths(spec)

	return spec
}

func addAuthPaths(spec *openapi.Spec) {
	spec.Paths["/auth/register"] = &openapi.PathItem{
		Post: &openapi.Operation{
			Summary:     "Register a local account",
			Tags:        []string{"auth"},
			RequestBody: openapi.RequestBodyJSON("Credentials", true),
			Responses: map[int]*openapi.Response{
				201: {Description: "Account created"},
				400: openapi.ResponseRef("BadRequest"),
				409: openapi.ResponseRef("Conflict"),
			},
		},
	}
	spec.Paths["/auth/login"] = &openapi.PathItem{
		Post: &openapi.Operation{
			Summary:     "Authenticate and issue a token",
			Tags:        []string{"auth"},
			RequestBody: openapi.RequestBodyJSON("Credentials", true),
			Responses: map[int]*openapi.Response{
				200: {Description: "Token issued"},
				401: {Description: "Invalid credentials"},
			},
		},
	}
	spec.Paths["/auth/me"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary: "Current identity",
			Tags:    []string{"auth"},
			Responses: map[int]*openapi.Response{
				200: {Description: "Authenticated user"},
				401: {Description: "Not authenticated"},
			},
		},
	}
}

func addDocumentPaths(spec *openapi.Spec) {
	spec.Paths["/documents"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary: "List documents",
			Tags:    []string{"documents"},
			Parameters: []*openapi.Parameter{
				openapi.QueryParam("page", "integer", "Page number", false),
				openapi.QueryParam("page_size", "integer", "Results per page", false),
				openapi.QueryParam("search", "string", "Filename search", false),
				openapi.QueryParam("status", "string", "Status filter", false),
			},
			Responses: map[int]*openapi.Response{
				200: {Description: "Paginated documents"},
			},
		},
		Post: &openapi.Operation{
			Summary:     "Upload a document",
			Description: "Multipart upload; ingestion runs asynchronously.",
			Tags:        []string{"documents"},
			Responses: map[int]*openapi.Response{
				202: openapi.ResponseJSON("Accepted for processing", "Document"),
				400: openapi.ResponseRef("BadRequest"),
				409: {Description: "Duplicate content"},
			},
		},
	}
	spec.Paths["/documents/search"] = &openapi.PathItem{
		Post: &openapi.Operation{
			Summary:     "Search documents",
			Tags:        []string{"documents"},
			RequestBody: openapi.RequestBodyJSON("PageRequest", true),
			Responses: map[int]*openapi.Response{
				200: {Description: "Paginated documents"},
			},
		},
	}

	docID := openapi.PathParam("id", "Document ID")

	spec.Paths["/documents/{id}"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "Fetch a document",
			Tags:       []string{"documents"},
			Parameters: []*openapi.Parameter{docID},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Document record", "Document"),
				404: openapi.ResponseRef("NotFound"),
			},
		},
		Delete: &openapi.Operation{
			Summary:    "Delete a document",
			Tags:       []string{"documents"},
			Parameters: []*openapi.Parameter{docID},
			Responses: map[int]*openapi.Response{
				204: {Description: "Deleted"},
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}
	spec.Paths["/documents/{id}/download"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "Download original content",
			Tags:       []string{"documents"},
			Parameters: []*openapi.Parameter{docID},
			Responses: map[int]*openapi.Response{
				200: {Description: "Blob stream"},
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}
	spec.Paths["/documents/{id}/classification"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "Classification result",
			Tags:       []string{"documents"},
			Parameters: []*openapi.Parameter{docID},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Department scores", "Classification"),
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}
	spec.Paths["/documents/{id}/sections"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "Stored sections",
			Tags:       []string{"documents"},
			Parameters: []*openapi.Parameter{docID},
			Responses: map[int]*openapi.Response{
				200: {Description: "Ordered sections"},
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}
	spec.Paths["/documents/{id}/graph"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "Provenance neighborhood",
			Tags:       []string{"documents"},
			Parameters: []*openapi.Parameter{docID},
			Responses: map[int]*openapi.Response{
				200: {Description: "Graph neighborhood"},
			},
		},
	}
	spec.Paths["/documents/{id}/summary"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "Stored summary",
			Tags:       []string{"documents"},
			Parameters: []*openapi.Parameter{docID},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Document summary", "Summary"),
				404: openapi.ResponseRef("NotFound"),
			},
		},
		Post: &openapi.Operation{
			Summary:    "Regenerate summary",
			Tags:       []string{"documents"},
			Parameters: []*openapi.Parameter{docID},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Regenerated summary", "Summary"),
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}
	spec.Paths["/documents/{id}/reprocess"] = &openapi.PathItem{
		Post: &openapi.Operation{
			Summary:    "Re-enqueue ingestion",
			Tags:       []string{"documents"},
			Parameters: []*openapi.Parameter{docID},
			Responses: map[int]*openapi.Response{
				202: {Description: "Re-queued"},
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}
}

func addDepartmentPaths(spec *openapi.Spec) {
	code := &openapi.Parameter{
		Name:        "code",
		In:          "path",
		Required:    true,
		Description: "Department code",
		Schema:      &openapi.Schema{Type: "string"},
	}

	spec.Paths["/departments"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary: "Department catalog",
			Tags:    []string{"departments"},
			Responses: map[int]*openapi.Response{
				200: {Description: "Departments with document counts"},
			},
		},
	}
	spec.Paths["/departments/{code}"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "One department",
			Tags:       []string{"departments"},
			Parameters: []*openapi.Parameter{code},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Department", "Department"),
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}
	spec.Paths["/departments/{code}/documents"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "Documents routed to a department",
			Tags:       []string{"departments"},
			Parameters: []*openapi.Parameter{code},
			Responses: map[int]*openapi.Response{
				200: {Description: "Paginated documents"},
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}
	spec.Paths["/departments/{code}/digest"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "Recent summaries for a department",
			Tags:       []string{"departments"},
			Parameters: []*openapi.Parameter{code},
			Responses: map[int]*openapi.Response{
				200: {Description: "Summary digest"},
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}
}

func addClassifyPaths(spec *openapi.Spec) {
	spec.Paths["/classify/preview"] = &openapi.PathItem{
		Post: &openapi.Operation{
			Summary:     "Classify text without storing",
			Tags:        []string{"classify"},
			RequestBody: openapi.RequestBodyJSON("ClassifyRequest", true),
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Classification result", "Classification"),
				400: openapi.ResponseRef("BadRequest"),
			},
		},
	}
	spec.Paths["/classify/rules"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary: "Active rule catalog",
			Tags:    []string{"classify"},
			Responses: map[int]*openapi.Response{
				200: {Description: "Rule catalog"},
			},
		},
	}
}

func addLanguagePaths(spec *openapi.Spec) {
	spec.Paths["/ask"] = &openapi.PathItem{
		Post: &openapi.Operation{
			Summary:     "Answer a question against stored documents",
			Tags:        []string{"ask"},
			RequestBody: openapi.RequestBodyJSON("AskRequest", true),
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Answer with citations", "AskResponse"),
				400: openapi.ResponseRef("BadRequest"),
			},
		},
	}
	spec.Paths["/translate"] = &openapi.PathItem{
		Post: &openapi.Operation{
			Summary:     "Translate between English and Malayalam",
			Tags:        []string{"translate"},
			RequestBody: openapi.RequestBodyJSON("TranslateRequest", true),
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Translated text", "TranslateResponse"),
				400: openapi.ResponseRef("BadRequest"),
				413: {Description: "Text too large"},
			},
		},
	}
	spec.Paths["/summaries/batch"] = &openapi.PathItem{
		Post: &openapi.Operation{
			Summary:     "Summarize up to 10 documents",
			Tags:        []string{"summaries"},
			RequestBody: openapi.RequestBodyJSON("BatchSummaryRequest", true),
			Responses: map[int]*openapi.Response{
				200: {Description: "Per-document summary entries"},
				400: openapi.ResponseRef("BadRequest"),
			},
		},
	}
}

func addPromptPaths(spec *openapi.Spec) {
	id := openapi.PathParam("id", "Prompt ID")

	spec.Paths["/prompts"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary: "List prompt overrides",
			Tags:    []string{"prompts"},
			Parameters: []*openapi.Parameter{
				openapi.QueryParam("page", "integer", "Page number", false),
				openapi.QueryParam("search", "string", "Name search", false),
			},
			Responses: map[int]*openapi.Response{
				200: {Description: "Paginated prompts"},
			},
		},
		Post: &openapi.Operation{
			Summary:     "Create a prompt override",
			Tags:        []string{"prompts"},
			RequestBody: openapi.RequestBodyJSON("Prompt", true),
			Responses: map[int]*openapi.Response{
				201: openapi.ResponseJSON("Created prompt", "Prompt"),
				400: openapi.ResponseRef("BadRequest"),
				409: openapi.ResponseRef("Conflict"),
			},
		},
	}
	spec.Paths["/prompts/{id}"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "Fetch a prompt override",
			Tags:       []string{"prompts"},
			Parameters: []*openapi.Parameter{id},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Prompt", "Prompt"),
				404: openapi.ResponseRef("NotFound"),
			},
		},
		Put: &openapi.Operation{
			Summary:     "Update a prompt override",
			Tags:        []string{"prompts"},
			Parameters:  []*openapi.Parameter{id},
			RequestBody: openapi.RequestBodyJSON("Prompt", true),
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Updated prompt", "Prompt"),
				404: openapi.ResponseRef("NotFound"),
			},
		},
		Delete: &openapi.Operation{
			Summary:    "Delete a prompt override",
			Tags:       []string{"prompts"},
			Parameters: []*openapi.Parameter{id},
			Responses: map[int]*openapi.Response{
				204: {Description: "Deleted"},
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}
	spec.Paths["/prompts/{id}/activate"] = &openapi.PathItem{
		Post: &openapi.Operation{
			Summary:    "Activate an override for its stage",
			Tags:       []string{"prompts"},
			Parameters: []*openapi.Parameter{id},
			Responses: map[int]*openapi.Response{
				200: {Description: "Activated"},
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}
	spec.Paths["/prompts/stages"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary: "Supported prompt stages",
			Tags:    []string{"prompts"},
			Responses: map[int]*openapi.Response{
				200: {Description: "Stage names"},
			},
		},
	}
}

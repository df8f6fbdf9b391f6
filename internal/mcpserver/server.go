// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes the book catalog to LLM clients via stdio transport.
package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/libris/internal/apperr"
	"github.com/starford/libris/internal/bookservice"
	"github.com/starford/libris/internal/models"
)

const formatURI = "libris://file-format"

// Server wraps the MCP server with catalog tools.
type Server struct {
	mcp *server.MCPServer
	svc *bookservice.Service
}

// New creates a new MCP server with all catalog tools registered.
func New(svc *bookservice.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Libris",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("search_book",
		mcp.WithDescription("Find the first book whose title matches exactly, ignoring case."),
		mcp.WithString("title", mcp.Required(), mcp.Description("Book title")),
	), s.searchBook)

	s.mcp.AddTool(mcp.NewTool("list_books",
		mcp.WithDescription("List every book in the catalog, one per line."),
	), s.listBooks)

	s.mcp.AddTool(mcp.NewTool("books_by_author",
		mcp.WithDescription("List the books by an author (exact name, case-insensitive) in catalog order."),
		mcp.WithString("author", mcp.Required(), mcp.Description("Author name")),
	), s.booksByAuthor)

	s.mcp.AddTool(mcp.NewTool("add_book",
		mcp.WithDescription("Append a book to the catalog."),
		mcp.WithString("author", mcp.Required(), mcp.Description("Author name")),
		mcp.WithString("title", mcp.Required(), mcp.Description("Book title")),
		mcp.WithNumber("year", mcp.Required(), mcp.Description("Publication year, not negative")),
		mcp.WithString("status", mcp.Required(), mcp.Description("One of BANNED, BORROWED, EXIT")),
	), s.addBook)

	s.mcp.AddTool(mcp.NewTool("delete_book",
		mcp.WithDescription("Delete the first book whose title matches, ignoring case."),
		mcp.WithString("title", mcp.Required(), mcp.Description("Book title")),
	), s.deleteBook)

	s.mcp.AddTool(mcp.NewTool("sort_books",
		mcp.WithDescription("Sort the catalog by publication year. Books from the same year keep their order."),
	), s.sortBooks)

	s.mcp.AddTool(mcp.NewTool("load_file",
		mcp.WithDescription("Append the books of a catalog file from the data directory. "+
			"Read the format first via get_file_format or the "+formatURI+" resource."),
		mcp.WithString("name", mcp.Required(), mcp.Description("File name relative to the data directory (e.g. books.txt)")),
	), s.loadFile)

	s.mcp.AddTool(mcp.NewTool("get_file_format",
		mcp.WithDescription("Returns the catalog file format accepted by load_file."),
	), s.getFileFormat)

	s.mcp.AddResource(
		mcp.NewResource(formatURI, "Catalog File Format",
			mcp.WithResourceDescription("Line format of catalog files."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readFileFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func formatBooks(books []models.Record) string {
	lines := make([]string, len(books))
	for i, b := range books {
		lines[i] = b.String()
	}
	return strings.Join(lines, "\n")
}

func (s *Server) searchBook(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := req.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	book, err := s.svc.Get(ctx, strings.TrimSpace(title))
	if errors.Is(err, apperr.ErrNotFound) {
		return mcp.NewToolResultText("Book not found."), nil
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(book.String()), nil
}

func (s *Server) listBooks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	books, ok := s.svc.List(ctx)
	if !ok {
		return mcp.NewToolResultText("The library has no books."), nil
	}
	return mcp.NewToolResultText(formatBooks(books)), nil
}

func (s *Server) booksByAuthor(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	author, err := req.RequireString("author")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	author = strings.TrimSpace(author)
	books := s.svc.ByAuthor(ctx, author)
	if len(books) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No books found by %s.", author)), nil
	}
	return mcp.NewToolResultText(formatBooks(books)), nil
}

func (s *Server) addBook(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	author, err := req.RequireString("author")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	title, err := req.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	year, err := req.RequireInt("year")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if year < 0 {
		return mcp.NewToolResultError("year cannot be negative"), nil
	}
	rawStatus, err := req.RequireString("status")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	status, err := models.ParseStatus(rawStatus)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	book := models.NewRecord(strings.TrimSpace(author), strings.TrimSpace(title), year, status)
	if err := s.svc.Add(ctx, book); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText("Book added successfully: " + book.String()), nil
}

func (s *Server) deleteBook(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := req.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.svc.Delete(ctx, strings.TrimSpace(title)); err != nil {
		return mcp.NewToolResultError("Book not found. Deletion failed."), nil
	}
	return mcp.NewToolResultText("Book deleted successfully."), nil
}

func (s *Server) sortBooks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.svc.Sort(ctx)
	return mcp.NewToolResultText("Books have been sorted by year of publication."), nil
}

func (s *Server) loadFile(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	rep, err := s.svc.Load(ctx, strings.TrimSpace(name))
	if err != nil {
		return mcp.NewToolResultError("Error reading the file: " + err.Error()), nil
	}

	var b strings.Builder
	for _, d := range rep.Diagnostics {
		b.WriteString(d.Message)
		b.WriteByte('\n')
	}
	b.WriteString(rep.Summary())
	return mcp.NewToolResultText(b.String()), nil
}

func (s *Server) getFileFormat(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(FileFormatContract), nil
}

func (s *Server) readFileFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      formatURI,
			MIMEType: "text/markdown",
			Text:     FileFormatContract,
		},
	}, nil
}

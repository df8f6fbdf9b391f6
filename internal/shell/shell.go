// Package shell implements the interactive numbered menu over a catalog.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/starford/libris/internal/bookservice"
	"github.com/starford/libris/internal/models"
)

const menu = `
=== Library Menu ===
1. Load books from file
2. Display all books
3. Search book by title
4. Get books by author
5. Add a new book
6. Delete a book
7. Sort books by year
8. Exit
Enter your choice (1-8): `

// Shell reads menu choices from in and writes results to out.
type Shell struct {
	svc *bookservice.Service
	in  *bufio.Scanner
	out io.Writer
}

// New creates a shell over svc.
func New(svc *bookservice.Service, in io.Reader, out io.Writer) *Shell {
	return &Shell{svc: svc, in: bufio.NewScanner(in), out: out}
}

// Run shows the menu until the user exits, input ends or ctx is cancelled.
func (s *Shell) Run(ctx context.Context) error {
	for ctx.Err() == nil {
		s.print(menu)
		line, err := s.readLine()
		if err != nil {
			return ignoreEOF(err)
		}
		choice, convErr := strconv.Atoi(line)
		if convErr != nil {
			choice = -1
		}

		switch choice {
		case 1:
			err = s.loadInteractive(ctx)
		case 2:
			s.displayAll(ctx)
		case 3:
			err = s.searchByTitle(ctx)
		case 4:
			err = s.byAuthor(ctx)
		case 5:
			err = s.addBook(ctx)
		case 6:
			err = s.deleteBook(ctx)
		case 7:
			s.svc.Sort(ctx)
			s.println("Books have been sorted by year of publication.")
		case 8:
			s.println("Exiting the Library Application. Goodbye!")
			return nil
		default:
			s.println("Invalid choice. Please select a valid option (1-8).")
		}
		if err != nil {
			return ignoreEOF(err)
		}
	}
	return ctx.Err()
}

// LoadFile loads path and prints each skipped line followed by the summary.
// The returned error is the load error, already reported to the user.
func (s *Shell) LoadFile(ctx context.Context, path string) error {
	rep, err := s.svc.Load(ctx, path)
	if rep != nil {
		for _, d := range rep.Diagnostics {
			s.println(capitalize(d.Message))
		}
	}
	if err != nil {
		s.println("Error reading the file: " + err.Error())
		return err
	}
	s.println(rep.Summary())
	return nil
}

func (s *Shell) loadInteractive(ctx context.Context) error {
	path, err := s.prompt("Enter the path to the books file (e.g., books.txt): ")
	if err != nil {
		return err
	}
	_ = s.LoadFile(ctx, path)
	return nil
}

func (s *Shell) displayAll(ctx context.Context) {
	s.println("\nBooks in the library:")
	books, ok := s.svc.List(ctx)
	if !ok {
		s.println("The library has no books.")
		return
	}
	s.printBooks(books)
}

func (s *Shell) searchByTitle(ctx context.Context) error {
	title, err := s.prompt("Enter the title of the book to search: ")
	if err != nil {
		return err
	}
	book, getErr := s.svc.Get(ctx, title)
	if getErr != nil {
		s.println("Book not found.")
		return nil
	}
	s.println(book.String())
	return nil
}

func (s *Shell) byAuthor(ctx context.Context) error {
	author, err := s.prompt("Enter the author's name: ")
	if err != nil {
		return err
	}
	books := s.svc.ByAuthor(ctx, author)
	if len(books) == 0 {
		s.println("No books found by " + author + ".")
		return nil
	}
	s.println("\nBooks by '" + author + "':")
	s.printBooks(books)
	return nil
}

func (s *Shell) addBook(ctx context.Context) error {
	author, err := s.prompt("Enter author name: ")
	if err != nil {
		return err
	}
	title, err := s.prompt("Enter book title: ")
	if err != nil {
		return err
	}

	year := -1
	for year < 0 {
		raw, err := s.prompt("Enter year of publication: ")
		if err != nil {
			return err
		}
		n, convErr := strconv.Atoi(raw)
		switch {
		case convErr != nil:
			s.println("Invalid year. Please enter a valid integer.")
		case n < 0:
			s.println("Year cannot be negative. Please try again.")
		default:
			year = n
		}
	}

	var status models.Status
	for !status.Valid() {
		raw, err := s.prompt("Enter status (BANNED, BORROWED, EXIT): ")
		if err != nil {
			return err
		}
		parsed, parseErr := models.ParseStatus(raw)
		if parseErr != nil {
			s.println("Invalid status. Please enter one of: BANNED, BORROWED, EXIT.")
			continue
		}
		status = parsed
	}

	book := models.NewRecord(author, title, year, status)
	if err := s.svc.Add(ctx, book); err != nil {
		return err
	}
	s.println("Book added successfully: " + book.String())
	return nil
}

func (s *Shell) deleteBook(ctx context.Context) error {
	title, err := s.prompt("Enter the title of the book to delete: ")
	if err != nil {
		return err
	}
	if s.svc.Delete(ctx, title) != nil {
		s.println("Book not found. Deletion failed.")
		return nil
	}
	s.println("Book deleted successfully.")
	return nil
}

func (s *Shell) prompt(label string) (string, error) {
	s.print(label)
	return s.readLine()
}

// readLine returns the next trimmed input line, or io.EOF when input ends.
func (s *Shell) readLine() (string, error) {
	if !s.in.Scan() {
		if err := s.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(s.in.Text()), nil
}

func (s *Shell) printBooks(books []models.Record) {
	for _, b := range books {
		s.println(b.String())
	}
}

func (s *Shell) print(text string) {
	_, _ = io.WriteString(s.out, text)
}

func (s *Shell) println(text string) {
	_, _ = fmt.Fprintln(s.out, text)
}

func capitalize(msg string) string {
	if msg == "" {
		return msg
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}

func ignoreEOF(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

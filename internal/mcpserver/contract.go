package mcpserver

// FileFormatContract describes the catalog file format accepted by load_file.
const FileFormatContract = `# Libris Catalog File Format

A catalog file is plain UTF-8 text with one book per line.

## Structure

` + "```" + `text
author,title,year,STATUS
` + "```" + `

## Rules

1. **Exactly four comma-separated fields.** Commas cannot be escaped, so
   authors and titles MUST NOT contain commas.
2. **Whitespace** around each field is trimmed.
3. **year** is a base-10 integer (` + "`" + `1949` + "`" + `, ` + "`" + `-300` + "`" + `).
4. **STATUS** is one of ` + "`" + `BANNED` + "`" + `, ` + "`" + `BORROWED` + "`" + `, ` + "`" + `EXIT` + "`" + ` (case-insensitive).
5. **Blank lines** are ignored. Lines may end in LF or CRLF.
6. **Malformed lines** are reported with their 1-based line number and skipped;
   the rest of the file still loads.
7. **Loading appends.** Records already in the catalog are kept, and duplicate
   titles are allowed; searches and deletes act on the first match.

## Example

` + "```" + `text
George Orwell,1984,1949,BANNED
George Orwell,Animal Farm,1945,BORROWED
Aldous Huxley,Brave New World,1932,EXIT
` + "```" + `
`

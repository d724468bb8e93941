package cli

import (
	"fmt"
	"strings"
	"text/template"
)

const usageText = `CRM Sync Client

Usage:
  crmsync [OPTIONS] COMMAND

Options:
  --version        Show version information
  --server URL     Server URL (default: http://localhost:8080)
  --db PATH        Path to local database (default: crmsync-client.db)

Commands:
  login                                  Login to server
  logout                                 Logout from server
  status                                 Show authentication and sync status
  list <entity> [field=value ...]        List records, optionally filtered
  add <entity> <field=value ...>         Create a new record
  update <entity> <id> <field=value ...> Update record fields
  delete <entity> <id> [id ...]          Delete one or more records
  sync                                   Force resync of loaded collections
  watch [interval]                       Keep collections fresh in background

Entities:
  leads, activities, products, orders, product-variants

Examples:
  crmsync login
  crmsync list leads status=open
  crmsync add leads name='Acme Corp' status=new
  crmsync update leads lead-42 status=won
  crmsync delete orders order-1 order-2 order-3
  crmsync watch 30s
  crmsync --server https://crm.example.com list products`

const recordListTemplate = `
{{- if eq (len .Records) 0 }}
No {{ .Entity }} found.
{{- if .Filters }}
Current filters: {{ .Filters }}
{{- end }}
{{ else }}
Found {{ len .Records }} {{ .Entity }}:
{{ range .Records }}
- {{ .ID }}
{{- range .Fields }}
   {{ .Name }}: {{ .Value }}
{{- end }}
{{ end }}
{{- end }}
{{- if .Offline }}
Note: server is unreachable, showing offline copy from {{ .SavedAt }}.
{{- end }}`

const recordTemplate = `
ID: {{ .ID }}
{{- range .Fields }}
{{ .Name }}: {{ .Value }}
{{- end }}`

type fieldView struct {
	Name  string
	Value string
}

type recordView struct {
	ID     string
	Fields []fieldView
}

type recordListView struct {
	Entity  string
	Filters string
	SavedAt string
	Records []recordView
	Offline bool
}

// renderTemplate выполняет шаблон в строку
func renderTemplate(name, text string, data any) (string, error) {
	tmpl, err := template.New(name).Parse(text)
	if err != nil {
		return "", fmt.Errorf("failed to parse template %s: %w", name, err)
	}
	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("failed to render template %s: %w", name, err)
	}
	return sb.String(), nil
}

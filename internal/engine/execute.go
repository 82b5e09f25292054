package engine

import (
	"context"

	"github.com/hashicorp/terraform-plugin-log/tflog"

	"github.com/aaearon/terraform-provider-snowsql/internal/client"
)

// Statement is one SQL text with its positional bindings
type Statement struct {
	Text     string
	Bindings []any
}

// execute runs statements in order on one cursor of a freshly acquired connection.
// The cursor and the connection are closed on every path; a close failure is only
// logged so an execution error is never masked.
func execute(ctx context.Context, connections client.ConnectionProvider, statements []Statement) error {
	conn, err := connections.Get(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := conn.Close(); closeErr != nil {
			tflog.Warn(ctx, "Failed to close warehouse connection", map[string]interface{}{
				"error": closeErr.Error(),
			})
		}
	}()

	cursor := conn.Cursor()
	defer func() {
		if closeErr := cursor.Close(); closeErr != nil {
			tflog.Warn(ctx, "Failed to close cursor", map[string]interface{}{
				"error": closeErr.Error(),
			})
		}
	}()

	for i, stmt := range statements {
		// Statement text only; bound values may be secrets.
		tflog.Debug(ctx, "Executing statement", map[string]interface{}{
			"statement": stmt.Text,
			"index":     i,
			"bindings":  len(stmt.Bindings),
		})
		if err := cursor.Execute(ctx, stmt.Text, stmt.Bindings...); err != nil {
			return err
		}
	}
	return nil
}

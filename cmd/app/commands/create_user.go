package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	authDomain "github.com/allisson/wopihost/internal/auth/domain"
	userDomain "github.com/allisson/wopihost/internal/user/domain"
	userUseCase "github.com/allisson/wopihost/internal/user/usecase"
)

// createUserResult is the JSON output shape for create-user.
type createUserResult struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Secret      string `json:"secret"`
	IsActive    bool   `json:"is_active"`
	Permissions string `json:"permissions"`
}

// RunCreateUser creates a new user account with a generated secret and prints
// the result in text or JSON format. The plain secret is shown exactly once;
// only its hash is stored.
//
// Requirements: with a SQL store driver the database must be migrated and
// accessible.
func RunCreateUser(
	ctx context.Context,
	users userUseCase.UseCase,
	logger *slog.Logger,
	writer io.Writer,
	name string,
	isActive bool,
	permissionList string,
	format string,
) error {
	permissions, ok := authDomain.ParsePermissions(permissionList)
	if !ok {
		return fmt.Errorf(
			"invalid permissions: %s (valid options: create, read, update, delete)",
			permissionList,
		)
	}

	logger.Info("creating new user", slog.String("name", name))

	output, err := users.Create(ctx, &userDomain.CreateUserInput{
		Name:        name,
		IsActive:    isActive,
		Permissions: permissions,
	})
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	result := createUserResult{
		ID:          output.ID.String(),
		Name:        name,
		Secret:      output.PlainSecret,
		IsActive:    isActive,
		Permissions: permissions.String(),
	}

	if format == "json" {
		encoder := json.NewEncoder(writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(result); err != nil {
			return fmt.Errorf("failed to encode output: %w", err)
		}
	} else {
		_, _ = fmt.Fprintln(writer, "User created successfully")
		_, _ = fmt.Fprintln(writer)
		_, _ = fmt.Fprintf(writer, "ID:          %s\n", result.ID)
		_, _ = fmt.Fprintf(writer, "Name:        %s\n", result.Name)
		_, _ = fmt.Fprintf(writer, "Secret:      %s\n", result.Secret)
		_, _ = fmt.Fprintf(writer, "Active:      %t\n", result.IsActive)
		_, _ = fmt.Fprintf(writer, "Permissions: %s\n", result.Permissions)
		_, _ = fmt.Fprintln(writer)
		_, _ = fmt.Fprintln(writer, "SECURITY: the secret is shown only once, store it securely.")
	}

	logger.Info("user created successfully",
		slog.String("user_id", result.ID),
		slog.String("name", name),
		slog.Bool("is_active", isActive),
	)

	return nil
}

package handler

import (
	"context"
	"fmt"
	"io"

	"github.com/fekuna/stroymaterials/internal/auth"
	"github.com/fekuna/stroymaterials/internal/cli"
	"github.com/fekuna/stroymaterials/internal/logger"
	"github.com/fekuna/stroymaterials/internal/model"
	"github.com/fekuna/stroymaterials/internal/user"
	"github.com/fekuna/stroymaterials/internal/user/dto"
	"go.uber.org/zap"
)

// UserHandler manages accounts. Every command requires the admin role.
type UserHandler struct {
	uc     user.UseCase
	out    io.Writer
	logger logger.ZapLogger
}

func NewUserHandler(uc user.UseCase, out io.Writer, log logger.ZapLogger) *UserHandler {
	return &UserHandler{
		uc:     uc,
		out:    out,
		logger: log,
	}
}

func (h *UserHandler) Commands() []cli.Command {
	return []cli.Command{
		{Name: "list", Usage: "all accounts", Run: h.List},
		{Name: "create", Usage: "-name N -password P [-role admin|guest]", Run: h.Create},
		{Name: "passwd", Usage: "-name N -password P", Run: h.Passwd},
		{Name: "enable", Usage: "ID", Run: h.active(true)},
		{Name: "disable", Usage: "ID", Run: h.active(false)},
		{Name: "delete", Usage: "ID", Run: h.Delete},
	}
}

func (h *UserHandler) Run(ctx context.Context, args []string) error {
	if err := auth.RequireAdmin(ctx); err != nil {
		return err
	}
	return cli.Dispatch(ctx, "users", h.Commands(), args)
}

func (h *UserHandler) List(ctx context.Context, args []string) error {
	users, err := h.uc.WatchAll().Get(ctx)
	if err != nil {
		h.logger.Error("failed to list users", zap.Error(err))
		return err
	}
	tw := cli.NewTable(h.out)
	fmt.Fprintln(tw, "ID\tЛОГИН\tРОЛЬ\tАКТИВЕН\tСОЗДАН")
	for _, u := range users {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n",
			u.ID, u.Username, u.Role, cli.YesNo(u.IsActive), u.CreatedAt.Local().Format(cli.DateLayout))
	}
	return tw.Flush()
}

func (h *UserHandler) Create(ctx context.Context, args []string) error {
	fs := cli.NewFlagSet("users create")
	name := fs.String("name", "", "username")
	password := fs.String("password", "", "password")
	role := fs.String("role", model.RoleGuest, "admin or guest")
	if err := cli.Parse(fs, args); err != nil {
		return err
	}

	u, err := h.uc.CreateUser(ctx, &dto.CreateUserInput{Username: *name, Password: *password, Role: *role})
	if err != nil {
		return err
	}
	fmt.Fprintf(h.out, "created user %d (%s)\n", u.ID, u.Role)
	return nil
}

func (h *UserHandler) Passwd(ctx context.Context, args []string) error {
	fs := cli.NewFlagSet("users passwd")
	name := fs.String("name", "", "username")
	password := fs.String("password", "", "new password")
	if err := cli.Parse(fs, args); err != nil {
		return err
	}

	if err := h.uc.ResetPassword(ctx, *name, *password); err != nil {
		return err
	}
	fmt.Fprintf(h.out, "password changed for %s\n", *name)
	return nil
}

func (h *UserHandler) active(on bool) func(context.Context, []string) error {
	return func(ctx context.Context, args []string) error {
		fs := cli.NewFlagSet("users")
		if err := cli.Parse(fs, args); err != nil {
			return err
		}
		id, err := cli.ArgID(fs)
		if err != nil {
			return err
		}
		if err := h.uc.SetActive(ctx, id, on); err != nil {
			return err
		}
		fmt.Fprintf(h.out, "user %d active: %s\n", id, cli.YesNo(on))
		return nil
	}
}

func (h *UserHandler) Delete(ctx context.Context, args []string) error {
	fs := cli.NewFlagSet("users delete")
	if err := cli.Parse(fs, args); err != nil {
		return err
	}
	id, err := cli.ArgID(fs)
	if err != nil {
		return err
	}

	if err := h.uc.DeleteUser(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(h.out, "deleted user %d\n", id)
	return nil
}

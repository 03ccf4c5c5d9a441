package main

import (
	"context"

	"github.com/lizet96/historia-clinica/auth"
	"github.com/lizet96/historia-clinica/config"
	"github.com/lizet96/historia-clinica/database"
	"github.com/lizet96/historia-clinica/models"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// demoUsers son las cuentas de prueba, una por rol base
var demoUsers = []auth.RegisterInput{
	{Username: "admin", Email: "admin@example.com", Password: "admin123", Rol: models.RolAdmisionista, NombreCompleto: "Administrador"},
	{Username: "medico1", Email: "medico1@example.com", Password: "medico123", Rol: models.RolMedico, NombreCompleto: "Dr. Juan Perez"},
	{Username: "paciente1", Email: "paciente1@example.com", Password: "paciente123", Rol: models.RolPaciente, NombreCompleto: "Carlos Gomez"},
	{Username: "secretaria1", Email: "secretaria1@example.com", Password: "secretaria123", Rol: models.RolSecretaria, NombreCompleto: "Encargada PDF"},
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Crea o actualiza los usuarios de prueba",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(func(ctx context.Context, cfg *config.Config, db *database.Database, logger zerolog.Logger) error {
				if err := db.Migrate(ctx); err != nil {
					return err
				}
				svc := auth.NewService(db.Gorm, auth.NewTokenCodec([]byte(cfg.JWTSecret), cfg.JWTTTL), logger)
				return seedUsers(ctx, svc, logger)
			})
		},
	}
}

func seedUsers(ctx context.Context, svc *auth.Service, logger zerolog.Logger) error {
	for _, in := range demoUsers {
		u, created, err := svc.EnsureUser(ctx, in)
		if err != nil {
			return err
		}
		action := "Actualizado"
		if created {
			action = "Creado"
		}
		logger.Info().Str("username", u.Username).Str("rol", in.Rol).Msg(action + " usuario de prueba")
	}
	return nil
}

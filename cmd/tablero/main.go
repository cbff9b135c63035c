// Command tablero administra el esquema y los lotes de importación desde la terminal.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jhoicas/Tablero-api/internal/application/graph"
	"github.com/jhoicas/Tablero-api/internal/application/importer"
	"github.com/jhoicas/Tablero-api/internal/application/schema"
	"github.com/jhoicas/Tablero-api/internal/bootstrap"
	"github.com/jhoicas/Tablero-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Tablero-api/pkg/config"
	pkgjwt "github.com/jhoicas/Tablero-api/pkg/jwt"
	"github.com/jhoicas/Tablero-api/pkg/logger"
)

var (
	cfg  *config.Config
	log  *logger.Logger
	deps *bootstrap.App
)

var rootCmd = &cobra.Command{
	Use:           "tablero",
	Short:         "Administración del esquema y de importaciones de Tablero",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		log = logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Output: os.Stderr})
		deps, err = bootstrap.New(cmd.Context(), cfg, log)
		return err
	},
	PersistentPostRunE: func(*cobra.Command, []string) error {
		if deps == nil {
			return nil
		}
		return deps.Close()
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Aplica las migraciones de PostgreSQL",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if deps.Pool == nil {
			return errors.New("migrate requiere STORAGE_DRIVER=postgres")
		}
		if err := postgres.RunMigrations(cmd.Context(), deps.Pool); err != nil {
			return err
		}
		log.Info().Msg("migraciones aplicadas")
		return nil
	},
}

var seedFile string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Crea o actualiza categorías y campos desde un archivo YAML",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		data, err := os.ReadFile(seedFile)
		if err != nil {
			return fmt.Errorf("leer %s: %w", seedFile, err)
		}
		f, err := schema.ParseSeed(data)
		if err != nil {
			return err
		}
		err = deps.Tx.Run(cmd.Context(), func(repos graph.Repos) error {
			return schema.Seed(cmd.Context(), repos.Categories, f)
		})
		if err != nil {
			return err
		}
		log.Info().Int("categories", len(f.Categories)).Str("file", seedFile).Msg("esquema aplicado")
		return nil
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate <category> <rows.json>",
	Short: "Valida un lote sin escribir e imprime el informe",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		rows, err := readRows(args[1])
		if err != nil {
			return err
		}
		report, err := deps.ImportUC.Validate(cmd.Context(), args[0], rows)
		if err != nil {
			return err
		}
		if err := printJSON(cmd, report); err != nil {
			return err
		}
		if report.HasErrors() {
			return fmt.Errorf("lote inválido: %d errores de columna, %d errores de fila", len(report.Columns), len(report.Items))
		}
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <category> <rows.json>",
	Short: "Importa un lote en una única transacción",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		rows, err := readRows(args[1])
		if err != nil {
			return err
		}
		res, err := deps.ImportUC.Import(cmd.Context(), args[0], rows)
		if err != nil {
			var vf *importer.ValidationFailedError
			if errors.As(err, &vf) {
				_ = printJSON(cmd, vf.Report)
			}
			return err
		}
		return printJSON(cmd, res)
	},
}

var (
	tokenRole    string
	tokenMinutes int
)

// tokenCmd solo necesita la configuración JWT; no abre almacenamiento.
var tokenCmd = &cobra.Command{
	Use:   "token <user-id>",
	Short: "Emite un JWT firmado para un operador",
	Args:  cobra.ExactArgs(1),
	PersistentPreRunE: func(*cobra.Command, []string) error {
		var err error
		cfg, err = config.Load()
		return err
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if !pkgjwt.IsRole(tokenRole) {
			return fmt.Errorf("rol %q no reconocido (admin, editor, viewer)", tokenRole)
		}
		minutes := tokenMinutes
		if minutes <= 0 {
			minutes = cfg.JWT.Expiration
		}
		tok, err := pkgjwt.Generate(cfg.JWT.Secret, args[0], tokenRole, cfg.JWT.Issuer, minutes)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), tok)
		return err
	},
}

// readRows acepta un arreglo JSON de objetos columna → celda.
func readRows(path string) ([]map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("leer %s: %w", path, err)
	}
	var rows []map[string]any
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("%s: se esperaba un arreglo JSON de filas: %w", path, err)
	}
	return rows, nil
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "schema.yaml", "archivo YAML de esquema")
	tokenCmd.Flags().StringVar(&tokenRole, "role", pkgjwt.RoleViewer, "rol del token: admin, editor o viewer")
	tokenCmd.Flags().IntVar(&tokenMinutes, "minutes", 0, "vigencia en minutos; 0 usa JWT_EXPIRATION_MINUTES")
	rootCmd.AddCommand(migrateCmd, seedCmd, validateCmd, importCmd, tokenCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

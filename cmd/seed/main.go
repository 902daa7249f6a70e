package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/ikkim/udonggeum-variants/config"
	"github.com/ikkim/udonggeum-variants/internal/app/repository"
	"github.com/ikkim/udonggeum-variants/internal/app/service"
	"github.com/ikkim/udonggeum-variants/internal/db"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "seed",
		Short:        "Import or export product variants as XLSX sheets",
		SilenceUsage: true,
	}
	root.AddCommand(newImportCommand())
	root.AddCommand(newExportCommand())
	return root
}

func newImportCommand() *cobra.Command {
	var (
		name        string
		description string
		yes         bool
	)
	cmd := &cobra.Command{
		Use:   "import <xlsx_file_path>",
		Short: "Create a product with one variant per sheet row",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filePath := args[0]
			if strings.TrimSpace(name) == "" {
				return fmt.Errorf("--name is required")
			}

			f, err := os.Open(filePath)
			if err != nil {
				return fmt.Errorf("failed to open XLSX file: %w", err)
			}
			defer f.Close()

			// 사용자 확인
			if !yes && !confirm(fmt.Sprintf("Import %s as product %q? (yes/no): ", filePath, name)) {
				fmt.Println("Import cancelled.")
				return nil
			}

			variantService, closeDB, err := connect()
			if err != nil {
				return err
			}
			defer closeDB()

			result, err := variantService.ImportProductSheet(service.CreateProductInput{
				Name:        name,
				Description: description,
			}, f)
			if result != nil {
				for _, failure := range result.Failures {
					fmt.Printf("  row %d: %s (%s)\n", failure.Index+1, failure.Reason, failure.Message)
				}
			}
			if err != nil {
				return fmt.Errorf("import failed: %w", err)
			}

			fmt.Println("Import completed!")
			fmt.Printf("  Product ID: %d\n", result.Product.ID)
			fmt.Printf("  Variants created: %d\n", len(result.Variants))
			fmt.Printf("  Rows rejected: %d\n", len(result.Failures))
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Product name (required)")
	cmd.Flags().StringVar(&description, "description", "", "Product description")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

func newExportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "export <product_id> <xlsx_file_path>",
		Short: "Write a product's variants to an XLSX sheet",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			productID, err := strconv.ParseUint(args[0], 10, 32)
			if err != nil {
				return fmt.Errorf("invalid product id %q", args[0])
			}

			variantService, closeDB, err := connect()
			if err != nil {
				return err
			}
			defer closeDB()

			data, err := variantService.ExportVariants(uint(productID))
			if err != nil {
				return fmt.Errorf("export failed: %w", err)
			}
			if err := os.WriteFile(args[1], data, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", args[1], err)
			}
			fmt.Printf("Exported product %d to %s\n", productID, args[1])
			return nil
		},
	}
}

// connect 설정 로드 후 DB 연결, variant 서비스 생성
func connect() (service.VariantService, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	conn := db.GetDB()
	variantService := service.NewVariantService(
		conn,
		repository.NewProductRepository(conn),
		repository.NewVariantRepository(conn),
		repository.NewAttributeRepository(conn),
		repository.NewOrderRepository(conn),
		cfg.Variant,
	)
	closeDB := func() {
		if err := db.Close(); err != nil {
			log.Println("Failed to close database:", err)
		}
	}
	return variantService, closeDB, nil
}

func confirm(prompt string) bool {
	fmt.Print(prompt)
	answer, _ := bufio.NewReader(os.Stdin).ReadString('\n')
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "yes" || answer == "y"
}

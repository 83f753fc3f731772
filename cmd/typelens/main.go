package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"typelens/internal/analysis"
	"typelens/internal/config"
	"typelens/internal/crawler"
	"typelens/internal/extractor"
	"typelens/internal/git"
	"typelens/internal/index"
	"typelens/internal/model"
	"typelens/internal/resolver"
	"typelens/internal/storage"

	"github.com/spf13/cobra"
)

var (
	rootCmd = &cobra.Command{
		Use:   "typelens",
		Short: "Generic type binding resolver for Java codebases",
	}
	dbPath string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Default DB path is local to the project
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "typelens.db", "Path to the local declaration index database (SQLite)")

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(returnTypeCmd)
	rootCmd.AddCommand(callCmd)
	rootCmd.AddCommand(updateCmd)
}

// initStore initializes the SQLite store.
func initStore() (*storage.SQLiteStore, error) {
	// Ensure config is loaded (even if defaults)
	cfg, _ := config.LoadConfig("config.yaml")
	if cfg != nil && !rootCmd.PersistentFlags().Changed("db") && cfg.Index.DBPath != "" {
		dbPath = cfg.Index.DBPath
	}

	return storage.NewSQLiteStore(dbPath)
}

// loadRegistry opens the store and loads the saved registry.
func loadRegistry(ctx context.Context) (*model.Registry, *storage.SQLiteStore) {
	store, err := initStore()
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	reg, err := store.LoadRegistry(ctx)
	if err != nil {
		store.Close()
		log.Fatalf("Failed to load declaration index: %v", err)
	}
	if len(reg.Classes) == 0 {
		store.Close()
		log.Fatalf("Declaration index is empty. Run 'typelens scan' first.")
	}
	return reg, store
}

var scanCmd = &cobra.Command{
	Use:   "scan [path]",
	Short: "Scan the project and build the local declaration index",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		path := "."
		if len(args) > 0 {
			path = args[0]
		}

		absPath, err := filepath.Abs(path)
		if err != nil {
			log.Fatalf("Failed to resolve path: %v", err)
		}

		fmt.Printf("📂 Scanning directory: %s\n", absPath)

		// 1. Initialize Store
		store, err := initStore()
		if err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		defer store.Close()

		// 2. Setup Extractor & Indexer
		ext, err := extractor.NewExtractor("java")
		if err != nil {
			log.Fatalf("Failed to create extractor: %v", err)
		}

		cr := crawler.NewCrawler(ext)
		idx := index.NewIndexer(cr)

		// 3. Build Registry
		fmt.Println("🚀 Building declaration registry...")
		start := time.Now()
		reg, err := idx.BuildRegistry(absPath)
		if err != nil {
			log.Fatalf("Build failed: %v", err)
		}
		fmt.Printf("✅ Registry built in %v. Found %d declarations.\n", time.Since(start), len(reg.Classes))

		// 4. Save to DB
		ctx := context.Background()
		fmt.Println("💾 Saving to local database...")
		if err := store.SaveRegistry(ctx, reg); err != nil {
			log.Fatalf("Failed to save registry: %v", err)
		}

		// 5. Optional JSON snapshot export
		cfg, _ := config.LoadConfig("config.yaml")
		if cfg != nil && cfg.Index.SnapshotPath != "" {
			if err := idx.SaveSnapshot(reg, cfg.Index.SnapshotPath); err != nil {
				log.Printf("⚠️ Failed to write snapshot: %v", err)
			} else {
				fmt.Printf("📄 Snapshot written to %s\n", cfg.Index.SnapshotPath)
			}
		}

		fmt.Printf("🎉 Scan complete! Database: %s\n", dbPath)
	},
}

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Resolve the type argument a class binds for a generic ancestor",
	Run: func(cmd *cobra.Command, args []string) {
		className, _ := cmd.Flags().GetString("type")
		ancestor, _ := cmd.Flags().GetString("ancestor")
		if className == "" || ancestor == "" {
			log.Fatalf("Both --type and --ancestor are required.")
		}

		ctx := context.Background()
		reg, store := loadRegistry(ctx)
		defer store.Close()

		cache := resolver.NewCache(reg)
		result, ok := cache.ResolveTypeArgument(className, ancestor)
		if !ok {
			fmt.Printf("❓ %s does not bind a resolvable type argument for %s\n", className, ancestor)
			return
		}
		fmt.Printf("✅ %s binds %s = %s\n", className, ancestor, result.Name)
	},
}

var returnTypeCmd = &cobra.Command{
	Use:   "return-type",
	Short: "Resolve the type argument of a method's generic return type",
	Run: func(cmd *cobra.Command, args []string) {
		methodRef, _ := cmd.Flags().GetString("method")
		ancestor, _ := cmd.Flags().GetString("ancestor")
		if methodRef == "" || ancestor == "" {
			log.Fatalf("Both --method and --ancestor are required.")
		}

		ctx := context.Background()
		reg, store := loadRegistry(ctx)
		defer store.Close()

		method := reg.LookupMethod(methodRef)
		if method == nil {
			log.Fatalf("Method not found: %s (expected Class#method)", methodRef)
		}

		result, ok := resolver.ResolveReturnTypeArgument(reg, method, ancestor)
		if !ok {
			fmt.Printf("❓ Return type of %s carries no resolvable argument for %s\n", methodRef, ancestor)
			return
		}
		fmt.Printf("✅ %s returns %s<%s>\n", methodRef, ancestor, result.Name)
	},
}

var callCmd = &cobra.Command{
	Use:   "call",
	Short: "Resolve a method's return type for a concrete call site",
	Long: `Resolves the erased return type of a generic method given the runtime
types of its arguments. Arguments are a comma-separated list of type names;
a type token argument (a Class<X> literal) is written as class:X.`,
	Run: func(cmd *cobra.Command, args []string) {
		methodRef, _ := cmd.Flags().GetString("method")
		argSpec, _ := cmd.Flags().GetString("args")
		if methodRef == "" {
			log.Fatalf("--method is required.")
		}

		values, err := parseCallArgs(argSpec)
		if err != nil {
			log.Fatalf("Invalid --args: %v", err)
		}

		ctx := context.Background()
		reg, store := loadRegistry(ctx)
		defer store.Close()

		method := reg.LookupMethod(methodRef)
		if method == nil {
			log.Fatalf("Method not found: %s (expected Class#method)", methodRef)
		}

		result, ok := resolver.ResolveParameterizedReturnType(reg, method, values)
		if !ok {
			fmt.Printf("❓ Return type of %s is not resolvable for this call\n", methodRef)
			return
		}
		fmt.Printf("✅ %s(...) -> %s\n", methodRef, result.Name)
	},
}

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Incrementally update the declaration index based on git changes",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		// 1. Get Local Git Changes
		changes, err := git.GetChangedFiles("HEAD")
		if err != nil {
			log.Fatalf("Failed to get git changes: %v", err)
		}

		if len(changes) == 0 {
			fmt.Println("✅ No changes detected.")
			return
		}

		fmt.Printf("📝 Detected %d changed files.\n", len(changes))

		// 2. Initialize Store & Load Registry
		store, err := initStore()
		if err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		defer store.Close()

		fmt.Println("🔄 Loading declaration index...")
		reg, err := store.LoadRegistry(ctx)
		if err != nil {
			log.Fatalf("Failed to load declaration index: %v", err)
		}

		// 3. Process Changes
		ext, err := extractor.NewExtractor("java")
		if err != nil {
			log.Fatalf("Failed to create extractor: %v", err)
		}

		declsUpdated := 0
		declsRemoved := 0

		for _, change := range changes {
			if !strings.HasSuffix(change.Path, ".java") {
				continue
			}

			declsRemoved += reg.RemoveByFile(change.Path)

			// If file exists (not deleted), parse and add new declarations
			if _, err := os.Stat(change.Path); err == nil {
				decls, err := ext.ExtractFromFile(change.Path)
				if err != nil {
					log.Printf("⚠️ Failed to parse file %s: %v", change.Path, err)
					continue
				}
				for _, d := range decls {
					reg.AddClass(d)
					declsUpdated++
				}
			}
		}

		fmt.Printf("📊 Index update: %d declarations removed, %d added/updated.\n", declsRemoved, declsUpdated)

		// 4. Rebuild name index after manual map modifications
		reg.RebuildIndex()

		// 5. Save Updated Registry
		if err := store.SaveRegistry(ctx, reg); err != nil {
			log.Fatalf("Failed to save updated registry: %v", err)
		}

		// 6. Impact Analysis
		fmt.Println("🔍 Analyzing impact...")
		analyzer := analysis.NewAnalyzer(reg)
		report, err := analyzer.AnalyzeImpact(changes)
		if err != nil {
			log.Printf("Analysis warning: %v", err)
			return
		}
		fmt.Printf("  -> %d declarations directly affected\n", len(report.DirectlyAffected))
		fmt.Printf("  -> %d declarations indirectly affected (subtypes)\n", len(report.IndirectlyAffected))
		for _, decl := range report.IndirectlyAffected {
			fmt.Printf("     %s (%s)\n", decl.QualifiedName(), decl.Filepath)
		}
	},
}

// parseCallArgs parses the --args value. Each entry is a runtime type name;
// "class:X" denotes a type token carrying X.
func parseCallArgs(spec string) ([]model.Value, error) {
	if strings.TrimSpace(spec) == "" {
		return nil, nil
	}

	var values []model.Value
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			return nil, fmt.Errorf("empty argument in list")
		}
		if token, ok := strings.CutPrefix(part, "class:"); ok {
			if token == "" {
				return nil, fmt.Errorf("type token is missing a type name")
			}
			values = append(values, model.TypeToken(token))
			continue
		}
		values = append(values, model.Instance(part))
	}
	return values, nil
}

func init() {
	resolveCmd.Flags().String("type", "", "Class or interface to resolve (simple or qualified name)")
	resolveCmd.Flags().String("ancestor", "", "Generic ancestor whose type argument to resolve")

	returnTypeCmd.Flags().String("method", "", "Method reference as Class#method")
	returnTypeCmd.Flags().String("ancestor", "", "Generic type whose argument to resolve in the return type")

	callCmd.Flags().String("method", "", "Method reference as Class#method")
	callCmd.Flags().String("args", "", "Comma-separated runtime argument types; use class:X for type tokens")
}

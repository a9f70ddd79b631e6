// sss-cli is a command-line client for the token library: it creates
// and mints fungible tokens and lists indexed assets by owner.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/gagliardetto/solana-go"

	"github.com/sss-labs/sss-shared/config"
	"github.com/sss-labs/sss-shared/internal/assets"
	"github.com/sss-labs/sss-shared/internal/identity"
	"github.com/sss-labs/sss-shared/internal/ledger"
	"github.com/sss-labs/sss-shared/internal/log"
	"github.com/sss-labs/sss-shared/internal/token"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	cfg := config.FromEnv()
	logLevel := "info"

	// Scan for global flags before the subcommand.
	args := os.Args[1:]
	for len(args) > 0 {
		switch {
		case args[0] == "--rpc" && len(args) > 1:
			cfg.RPCURL = args[1]
			args = args[2:]
		case strings.HasPrefix(args[0], "--rpc="):
			cfg.RPCURL = args[0][len("--rpc="):]
			args = args[1:]
		case args[0] == "--log-level" && len(args) > 1:
			logLevel = args[1]
			args = args[2:]
		case strings.HasPrefix(args[0], "--log-level="):
			logLevel = args[0][len("--log-level="):]
			args = args[1:]
		default:
			goto dispatch
		}
	}

dispatch:
	log.Init(logLevel, false)

	if len(args) == 0 {
		usage()
		os.Exit(1)
	}

	cmd := args[0]
	cmdArgs := args[1:]

	switch cmd {
	case "create-token":
		cmdCreateToken(cfg, cmdArgs)
	case "mint":
		cmdMint(cfg, cmdArgs)
	case "assets":
		cmdAssets(cfg, cmdArgs)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", cmd)
		usage()
		os.Exit(1)
	}
}

func newService(cfg config.Config) *token.Service {
	return token.NewService(identity.NewResolver(cfg), ledger.New(cfg))
}

func cmdCreateToken(cfg config.Config, args []string) {
	fs := flag.NewFlagSet("create-token", flag.ExitOnError)
	uri := fs.String("uri", "", "token metadata URI (required)")
	name := fs.String("name", "", "token name (required)")
	decimals := fs.Uint("decimals", 6, "decimal precision (0-255)")
	fs.Parse(args)

	if *uri == "" || *name == "" {
		fmt.Fprintln(os.Stderr, "create-token: --uri and --name are required")
		os.Exit(1)
	}
	if *decimals > 255 {
		fmt.Fprintln(os.Stderr, "create-token: --decimals must be 0-255")
		os.Exit(1)
	}

	res, err := newService(cfg).CreateToken(context.Background(), token.CreateRequest{
		URI:      *uri,
		Name:     *name,
		Decimals: uint8(*decimals),
	})
	if err != nil {
		fatal(err)
	}

	fmt.Printf("Transaction signature: %s\n", res.Signature)
	fmt.Printf("Mint address:          %s\n", res.Mint)
}

func cmdMint(cfg config.Config, args []string) {
	fs := flag.NewFlagSet("mint", flag.ExitOnError)
	mintStr := fs.String("mint", "", "mint address (required)")
	ownerStr := fs.String("owner", "", "recipient owner address (default: payer)")
	amount := fs.Uint64("amount", 0, "amount to mint in raw units (required)")
	fs.Parse(args)

	if *mintStr == "" || *amount == 0 {
		fmt.Fprintln(os.Stderr, "mint: --mint and --amount are required")
		os.Exit(1)
	}

	mint, err := solana.PublicKeyFromBase58(*mintStr)
	if err != nil {
		fatal(fmt.Errorf("invalid mint address: %w", err))
	}

	req := token.MintRequest{Mint: mint, Amount: *amount}
	if *ownerStr != "" {
		owner, err := solana.PublicKeyFromBase58(*ownerStr)
		if err != nil {
			fatal(fmt.Errorf("invalid owner address: %w", err))
		}
		req.Owner = &owner
	}

	sig, err := newService(cfg).MintToken(context.Background(), req)
	if err != nil {
		fatal(err)
	}

	fmt.Printf("Transaction signature: %s\n", sig)
}

func cmdAssets(cfg config.Config, args []string) {
	fs := flag.NewFlagSet("assets", flag.ExitOnError)
	ownerStr := fs.String("owner", "", "owner address (required)")
	fs.Parse(args)

	if *ownerStr == "" {
		fmt.Fprintln(os.Stderr, "assets: --owner is required")
		os.Exit(1)
	}
	owner, err := solana.PublicKeyFromBase58(*ownerStr)
	if err != nil {
		fatal(fmt.Errorf("invalid owner address: %w", err))
	}

	items, err := assets.New(cfg).AssetsByOwner(context.Background(), owner)
	if err != nil {
		fatal(err)
	}

	fmt.Printf("Found %d digital assets:\n", len(items))
	for _, asset := range items {
		fmt.Printf("  %s\n", asset.ID)
		if len(asset.Content) > 0 {
			fmt.Printf("    content:  %s\n", asset.Content)
		}
		if len(asset.Metadata) > 0 {
			fmt.Printf("    metadata: %s\n", asset.Metadata)
		}
	}
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: sss-cli [global flags] <command> [flags]

Global flags:
  --rpc <url>          RPC endpoint (default: $SOLANA_RPC_URL or devnet)
  --log-level <level>  debug|info|warn|error (default: info)

Commands:
  create-token  --uri <uri> --name <name> [--decimals <n>]
  mint          --mint <address> [--owner <address>] --amount <n>
  assets        --owner <address>

Environment:
  PAYER_MNEMONIC   BIP-39 phrase for the payer identity (required for
                   create-token and mint)
  SOLANA_RPC_URL   RPC endpoint
  ASSET_INDEX_URL  DAS indexing endpoint for the assets command
`)
}

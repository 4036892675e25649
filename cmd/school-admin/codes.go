package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/m007/school-ui-api/internal/data"
	"github.com/m007/school-ui-api/internal/service"
)

type mintCodesOptions struct {
	Count   int
	Timeout time.Duration
}

// runMintCodes reserves unclaimed enrollment codes so the front office can
// hand them out before the student record exists.
func runMintCodes(cmdCtx *commandContext, args []string) error {
	opts, err := parseMintCodesFlags(args)
	if err != nil {
		return err
	}

	return withDatabase(cmdCtx, opts.Timeout, func(ctx context.Context, db *sql.DB) error {
		codes, svcErr := service.NewStudentCodeService(service.StudentCodeServiceOptions{
			Repo:   data.NewStudentCodeRepo(db),
			Logger: cmdCtx.Logger,
		})
		if svcErr != nil {
			return svcErr
		}

		for range opts.Count {
			code, genErr := codes.Generate(ctx)
			if genErr != nil {
				return fmt.Errorf("generate code: %w", genErr)
			}
			if writeErr := writef(os.Stdout, "%s\n", code); writeErr != nil {
				return writeErr
			}
		}
		return nil
	})
}

func parseMintCodesFlags(args []string) (mintCodesOptions, error) {
	fs := flag.NewFlagSet("mint-codes", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	opts := mintCodesOptions{}
	fs.IntVar(&opts.Count, "count", 1, "Number of codes to reserve")
	fs.DurationVar(&opts.Timeout, "timeout", time.Minute, "Maximum duration to wait for code reservation")

	if err := fs.Parse(args); err != nil {
		return mintCodesOptions{}, err
	}
	if opts.Count <= 0 || opts.Count > 1000 {
		return mintCodesOptions{}, errors.New("--count must be between 1 and 1000")
	}
	if opts.Timeout <= 0 {
		return mintCodesOptions{}, errors.New("--timeout must be greater than zero")
	}
	return opts, nil
}

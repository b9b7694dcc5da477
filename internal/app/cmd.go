package app

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/hitoshi/datetimeapi/internal/config"
)

// version はビルド時に -ldflags "-X" で上書きされる。
var version = "dev"

// NewRootCommand はdatetimeapiのコマンドツリーを生成する。
// サブコマンドを省略した場合はserveとして動作する。
func NewRootCommand(w io.Writer) *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:   "datetimeapi",
		Short: "Date and time calculation HTTP API",
		Long: `datetimeapi serves stateless date/time endpoints: date arithmetic,
datetime differences, timezone conversion, weekday names and ISO week numbers.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// --config はCONFIG_FILE環境変数より優先する
			if configPath != "" {
				return os.Setenv(config.ConfigFileEnv, configPath)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(w)
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a TOML config file")
	root.SetOut(w)

	root.AddCommand(newServeCommand(w))
	root.AddCommand(newHealthcheckCommand())
	root.AddCommand(newVersionCommand())

	return root
}

func newServeCommand(w io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(w)
		},
	}
}

// newHealthcheckCommand はDockerのヘルスチェック用サブコマンドを生成する。
// 軽量サブコマンドのため、設定の読み込みやログ初期化は行わない。
func newHealthcheckCommand() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "healthcheck",
		Short: "Probe the local /health endpoint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if port == "" {
				port = os.Getenv("SERVER_PORT")
			}
			if port == "" {
				port = "8080"
			}
			return runHealthcheck(port)
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "port of the local server (default $SERVER_PORT or 8080)")
	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("datetimeapi version %s\n", version)
		},
	}
}

// Run はアプリケーションのメインエントリーポイント。
// argsにはos.Args[1:]を渡す。
func Run(w io.Writer, args []string) error {
	root := NewRootCommand(w)
	root.SetArgs(args)
	return root.Execute()
}

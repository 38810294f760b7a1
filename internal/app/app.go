// Package app はコマンドラインの起動処理と依存関係のワイヤリングを提供する。
package app

import (
	"context"
	"fmt"
	"io"
	"net/url"

	"github.com/spf13/viper"

	"github.com/hitoshi/botcatalog/internal/config"
	"github.com/hitoshi/botcatalog/internal/logger"
)

// Init はアプリケーションの初期化を行う。
// viperから設定を読み込み、LOG_LEVELに従ってJSON構造化ログをセットアップする。
// writerが指定された場合はログ出力先としてそのwriterを使用する。
func Init(w io.Writer, v *viper.Viper) (*config.Config, error) {
	// 設定の読み込みに失敗した場合もログを出せるよう先に初期化する
	logger.SetupDefault(w, v.GetString("log_level"))

	cfg, err := config.LoadFrom(v)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.SetupDefault(w, cfg.LogLevel)
	return cfg, nil
}

// Run はアプリケーションのメインエントリーポイント。
// argsにはos.Args[1:]を渡す。サブコマンド省略時はAPIサーバーを起動する。
func Run(w io.Writer, args []string) error {
	root := NewRootCommand(w, config.NewViper())
	root.SetArgs(args)
	return root.ExecuteContext(context.Background())
}

// maskDatabaseURL はデータベースURLのパスワードをマスクする。
func maskDatabaseURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "***"
	}
	return u.Redacted()
}

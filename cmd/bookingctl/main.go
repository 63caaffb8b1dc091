// bookingctl 预约服务命令行客户端
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"studio-booking/internal/client"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		var apiErr *client.APIError
		if errors.As(err, &apiErr) && apiErr.Message != "" {
			fmt.Fprintf(os.Stderr, "错误: %s\n", apiErr.Message)
		} else {
			fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		}
		os.Exit(1)
	}
}

// run 解析全局参数后分派子命令
// 全局参数可由 BOOKINGCTL_SERVER / BOOKINGCTL_TOKEN_FILE / BOOKINGCTL_TZ 环境变量提供
func run(ctx context.Context, args []string, out io.Writer) error {
	fs := pflag.NewFlagSet("bookingctl", pflag.ContinueOnError)
	fs.SetInterspersed(false)
	fs.String("server", "http://localhost:8000", "服务地址")
	fs.String("token-file", "", "Token 文件路径（默认用户配置目录）")
	fs.String("tz", "", "显示时区，如 America/Sao_Paulo（默认本地）")
	if err := fs.Parse(args); err != nil {
		return err
	}

	v := viper.New()
	v.SetEnvPrefix("BOOKINGCTL")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(fs); err != nil {
		return err
	}

	tokenPath := v.GetString("token-file")
	if tokenPath == "" {
		p, err := client.DefaultTokenPath()
		if err != nil {
			return err
		}
		tokenPath = p
	}

	loc := time.Local
	if tz := v.GetString("tz"); tz != "" {
		l, err := time.LoadLocation(tz)
		if err != nil {
			return fmt.Errorf("无效时区 %q: %w", tz, err)
		}
		loc = l
	}

	a := &app{
		cl:  client.New(v.GetString("server"), client.NewFileTokenStore(tokenPath)),
		out: out,
		now: time.Now,
		loc: loc,
	}
	return a.dispatch(ctx, fs.Args())
}

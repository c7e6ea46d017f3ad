// shiftctl 门店值班经理的命令行工具：迁移数据库、查看合规看板、试算用餐截止。
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "shiftctl",
		Short:         "Meal-break compliance tooling for store shifts",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "配置文件路径（默认 ./config/config.yaml）")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "输出 info 级别日志")

	cmd.AddCommand(
		newMigrateCmd(opts),
		newBoardCmd(opts),
		newPolicyCmd(opts),
		newEvaluateCmd(opts),
	)
	return cmd
}

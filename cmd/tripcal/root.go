package main

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/lululau/tripcal/internal/calendar"
	"github.com/lululau/tripcal/internal/config"
	"github.com/lululau/tripcal/internal/holidays"
	"github.com/lululau/tripcal/internal/picker"
	"github.com/lululau/tripcal/internal/render"
	"github.com/lululau/tripcal/internal/tui"
)

func newRootCommand() *cobra.Command {
	v := config.New()
	var today string

	cmd := &cobra.Command{
		Use:   "tripcal",
		Short: "选择出发和返程日期",
		Long: `tripcal 在终端中展示往返行程的两个日期选择器。

出发日期变更到返程日期当天或之后时，返程日期自动顺延一天；
可选日期范围为今天起的 horizon-days 天。`,
		Example: `
  tripcal                     交互模式
  tripcal -n                  打印默认日期后退出
  tripcal --today 2024-06-10  固定今天的日期
`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, v, today)
		},
	}

	flags := cmd.Flags()
	flags.Int(config.KeyHorizonDays, calendar.DefaultHorizonDays, "可选日期范围（天）")
	flags.Int("depart-months", 1, "默认出发日期相对本月的月数")
	flags.Int("depart-day", 10, "默认出发日期的日")
	flags.Int("return-months", 1, "默认返程日期相对本月的月数")
	flags.Int("return-day", 17, "默认返程日期的日")
	flags.Duration(config.KeyRenderTimeout, picker.DefaultRenderTimeout, "等待日历刷新的超时时间")
	flags.Duration(config.KeyPollInterval, picker.DefaultPollInterval, "检查日历刷新的间隔")
	flags.Bool(config.KeyLunar, true, "在日期下方显示农历")
	flags.BoolP(config.KeyNoColor, "N", false, "禁用所有颜色输出")
	flags.BoolP(config.KeyPlain, "n", false, "直接渲染并退出（非交互模式）")
	flags.String(config.KeyHolidaysFile, "", "指定节假日数据文件路径")
	flags.String(config.KeyLogLevel, "info", "日志级别 (debug|info|warn|error)")
	flags.String(config.KeyLogFile, "", "日志文件路径，未指定时不记录日志")
	flags.StringVar(&today, "today", "", "以 YYYY-MM-DD 固定今天的日期")

	bindings := map[string]string{
		config.KeyHorizonDays:   config.KeyHorizonDays,
		config.KeyDepartMonths:  "depart-months",
		config.KeyDepartDay:     "depart-day",
		config.KeyReturnMonths:  "return-months",
		config.KeyReturnDay:     "return-day",
		config.KeyRenderTimeout: config.KeyRenderTimeout,
		config.KeyPollInterval:  config.KeyPollInterval,
		config.KeyLunar:         config.KeyLunar,
		config.KeyNoColor:       config.KeyNoColor,
		config.KeyPlain:         config.KeyPlain,
		config.KeyHolidaysFile:  config.KeyHolidaysFile,
		config.KeyLogLevel:      config.KeyLogLevel,
		config.KeyLogFile:       config.KeyLogFile,
	}
	for key, name := range bindings {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			panic(err)
		}
	}
	return cmd
}

func run(cmd *cobra.Command, v *viper.Viper, today string) error {
	cfg, err := config.Load(v)
	if err != nil {
		return err
	}
	logger, closer, err := cfg.NewLogger()
	if err != nil {
		return err
	}
	defer closer.Close()

	if cfg.NoColor {
		render.SetNoColor(true)
		tui.SetNoColor(true)
	}

	clock, err := parseToday(today)
	if err != nil {
		return err
	}
	set := loadHolidays(cmd.ErrOrStderr(), cfg.HolidaysFile, logger)
	svc := calendar.NewService(
		calendar.WithClock(clock),
		calendar.WithLunar(cfg.Lunar),
		calendar.WithHolidays(set),
	)

	form := render.NewForm()
	opts := append(cfg.PickerOptions(), picker.WithLogger(logger))
	ctrl, err := picker.NewController(cfg.Picker(clock),
		form.Surface(picker.DepartFieldID),
		form.Surface(picker.ReturnFieldID),
		opts...)
	if err != nil {
		return err
	}
	defer ctrl.Close()

	if cfg.Plain {
		return render.RunPlain(render.PlainOptions{
			Writer:     cmd.OutOrStdout(),
			Service:    svc,
			Controller: ctrl,
			Form:       form,
		})
	}

	if err := tui.Run(tui.Options{
		Context:    cmd.Context(),
		Service:    svc,
		Controller: ctrl,
		Form:       form,
	}); err != nil {
		return err
	}
	depart, ret := ctrl.Dates()
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s %s  %s %s\n",
		render.FieldLabels[picker.Depart], depart.Format(),
		render.FieldLabels[picker.Return], ret.Format())
	return err
}

func parseToday(value string) (calendar.Clock, error) {
	if value == "" {
		return calendar.SystemClock(nil), nil
	}
	t, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return nil, fmt.Errorf("无效的 --today 日期 %q: %w", value, err)
	}
	return calendar.FixedClock(calendar.FromTime(t)), nil
}

// loadHolidays reads the holiday file, or the cached default one. A file
// that cannot be read only disables holiday annotations.
func loadHolidays(stderr io.Writer, path string, logger *slog.Logger) holidays.Set {
	if path != "" {
		set, err := holidays.LoadFromFile(path)
		if err != nil {
			fmt.Fprintf(stderr, "警告: 无法加载节假日文件 %s: %v\n", path, err)
			logger.Warn("holiday file not loaded", slog.String("path", path), slog.Any("error", err))
			return nil
		}
		return set
	}
	set, err := holidays.LoadDefault()
	if err != nil {
		logger.Warn("holiday cache not loaded", slog.Any("error", err))
		return nil
	}
	return set
}

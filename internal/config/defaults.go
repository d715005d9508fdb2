package config

const (
	defaultConfigPath      = "~/.config/examtally/config.toml"
	projectConfigName      = "examtally.toml"
	defaultBankPath        = "数据源表格.xlsx"
	defaultOutputPath      = "提取后的试卷分析.xlsx"
	defaultTypeColumn      = "题型"
	defaultQuestionColumn  = "试题题目"
	defaultAnswerColumn    = "答案"
	defaultQuestionPattern = `^\d+\.\s*(.*)$`
	defaultThreshold       = 0.5
	defaultReversePass     = ReversePassAlways
	defaultDuplicatePolicy = DuplicateOverwrite
	defaultShortRowPolicy  = ShortRowPad
	defaultOutputFormat    = FormatXLSX
	defaultOutputLanguage  = "zh"
	defaultOverwrite       = OverwriteAsk
	defaultWorkers         = 1
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
	maxOptionColumns       = 8
)

// Policy and format names accepted in the configuration file.
const (
	ReversePassAlways   = "always"
	ReversePassFallback = "fallback"

	DuplicateOverwrite = "overwrite"
	DuplicateFirst     = "first"
	DuplicateReject    = "reject"

	ShortRowPad    = "pad"
	ShortRowReject = "reject"

	FormatXLSX   = "xlsx"
	FormatCSV    = "csv"
	FormatSQLite = "sqlite"

	OverwriteAsk    = "ask"
	OverwriteAlways = "always"
	OverwriteNever  = "never"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			// Bank stays empty so EXAMTALLY_BANK can fill it during normalize.
			Output: defaultOutputPath,
		},
		Bank: Bank{
			TypeColumn:            defaultTypeColumn,
			QuestionColumn:        defaultQuestionColumn,
			OptionColumns:         []string{"A", "B", "C", "D", "E", "F", "G", "H"},
			AnswerColumn:          defaultAnswerColumn,
			ClassificationColumns: []int{14, 15, 16},
			SingleLabels:          []string{"单选题", "single-choice"},
			MultipleLabels:        []string{"多选题", "multiple-choice"},
			TrueFalseLabels:       []string{"判断题", "true-false"},
			TrueFalseOptions:      []string{"正确", "错误"},
			DuplicatePolicy:       defaultDuplicatePolicy,
			ShortRowPolicy:        defaultShortRowPolicy,
		},
		Transcript: Transcript{
			NameMarkers:     []string{"考生名称：", "考生名称:", "student name:"},
			ScoreMarkers:    []string{"该题得分是:", "该题得分是：", "score for this item is:"},
			UnitLabels:      []string{"分", "points", "point", "pts"},
			QuestionPattern: defaultQuestionPattern,
		},
		Matching: Matching{
			Threshold:   defaultThreshold,
			ReversePass: defaultReversePass,
		},
		Output: Output{
			Format:    defaultOutputFormat,
			Language:  defaultOutputLanguage,
			Overwrite: defaultOverwrite,
		},
		Workflow: Workflow{
			Workers: defaultWorkers,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

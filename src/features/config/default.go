package config

var defaultConfig = Config{
	Server: Server{
		PrintRoutes: false,
		Port:        3636,
	},
	Logger: Logger{
		Enabled: true,
		Level:   "info",
		Format:  "text",
	},
	Records: Records{
		Limit: 0, // keep every record for the life of the process
	},
	Archive: Archive{
		Enabled: true,
		Path:    "./records.db",
	},
	Telegram: Telegram{
		Enabled: false,
		Token:   "", // Can be obtained with https://t.me/BotFather
		ChatID:  0,
	},
	Watches: []Watch{},
}

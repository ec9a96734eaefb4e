package main

import (
	"github.com/joho/godotenv"
	"github.com/kalexmills/refrain/src/refrain"
	"github.com/kalexmills/refrain/src/refrain/db"
	"github.com/kalexmills/refrain/src/rhyme"
	"github.com/spf13/viper"
	"log"

	"os"
	"os/signal"
	"syscall"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, reading environment only,", err)
	}
	conf := readConfig()

	sqlDB, err := db.Open(viper.GetString("dbDriver"), viper.GetString("dbPath"))
	if err != nil {
		log.Fatalf("fail error opening database: %v", err)
	}
	defer sqlDB.Close()
	go refrain.BackfillSheetHashes(sqlDB)

	dict := rhyme.NewHandle(viper.GetString("dictPath"))
	go func() {
		if d, err := dict.Get(); err != nil {
			log.Println("could not load rhyme dictionary, rhyme suggestions are disabled,", err)
		} else {
			log.Printf("loaded rhyme dictionary with %d words", d.Len())
		}
	}()

	bot := refrain.NewRefrain(conf, sqlDB, dict)
	err = bot.Open()
	if err != nil {
		log.Fatalf("fail error opening bot: %v", err)
	}

	log.Println("Bot is now running.  Press CTRL-C to exit.")
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	// Cleanly close down the Discord session.
	err = bot.Close()
	if err != nil {
		log.Println("error closing session,", err)
	}
}

func readConfig() refrain.Config {
	viper.SetDefault("commandPrefix", refrain.DefaultCommandPrefix)
	viper.SetDefault("maxReplyLines", 60)
	viper.SetDefault("defaultFeatures", []string{"ShowSections"})
	viper.SetDefault("dbDriver", "sqlite3")
	viper.SetDefault("dbPath", "./refrain.sqlite3")
	viper.SetDefault("dictPath", "./rhymes.json")
	viper.SetDefault("debug", false)

	viper.SetEnvPrefix("REFRAIN")
	viper.AutomaticEnv()

	viper.SetConfigName("config")
	viper.AddConfigPath("/etc/refrain")
	viper.AddConfigPath(".")
	err := viper.ReadInConfig()
	if err != nil {
		log.Println("no config file found, using defaults,", err)
	}

	flags := db.ConfigFlag(0)
	for _, name := range viper.GetStringSlice("defaultFeatures") {
		flag, err := db.ParseFlag(name)
		if err != nil {
			log.Println("ignoring default feature,", err)
			continue
		}
		flags |= flag
	}
	return refrain.Config{
		Token:           viper.GetString("token"),
		CommandPrefix:   viper.GetString("commandPrefix"),
		MaxReplyLines:   viper.GetInt("maxReplyLines"),
		DefaultFeatures: flags,
		Debug:           viper.GetBool("debug"),
	}
}

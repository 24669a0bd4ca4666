package handlers

import "soundnorm-site/config"

type BuildInfo struct {
	BuildDate    string `json:"build_date"`
	BuildId      string `json:"build_id"`
	BuildIdShort string `json:"build_id_short"`
}

func MakeBuildInfo() BuildInfo {
	sha := config.GetGitSHA()
	short := sha
	if len(short) > 7 {
		short = short[0:7]
	}
	return BuildInfo{
		BuildDate:    config.GetBuildDate(),
		BuildId:      sha,
		BuildIdShort: short,
	}
}

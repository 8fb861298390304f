package entity

type MeetingJoinInfo struct {
	AppID       string `json:"app_id"`
	Channel     string `json:"channel"`
	Token       string `json:"token"`
	UID         string `json:"uid"`
	DisplayName string `json:"display_name"`
}

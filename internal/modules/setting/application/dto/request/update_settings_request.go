package request

type SettingItem struct {
	Key   string `json:"key" binding:"required"`
	Value string `json:"value"`
}

type UpdateSettingsRequest struct {
	Items []SettingItem `json:"items" binding:"required,min=1"`
}

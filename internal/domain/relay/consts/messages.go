package consts

// Replies sent to users
const (
	MsgStart = "Halo! Kirim link TikTok (video atau foto/slideshow) ke saya, " +
		"saya akan mendownload dan mengirimkannya kembali.\n\n" +
		"Contoh: https://www.tiktok.com/@username/video/1234567890\n\n" +
		"Catatan: hanya untuk konten yang Anda berhak download."

	MsgHelp = "/start untuk instruksi.\nKirimkan link TikTok di chat."

	MsgSendLink       = "Kirim link TikTok (text)."
	MsgAccepted       = "Menerima link, mulai proses download... ⏳"
	MsgDownloadFailed = "Gagal mendownload. Pastikan link TikTok valid dan dapat diakses."
	MsgSendFileFailed = "Gagal mengirim file %s."
	MsgDone           = "Selesai ✅"
	MsgInternalError  = "Terjadi kesalahan internal. Coba lagi nanti."

	// CaptionFormat takes the human readable file size
	CaptionFormat = "Diunduh dari TikTok — ukuran %s"
)

package cache

// IpCache 上次IP缓存
type IpCache struct {
	Addr          string // 缓存地址
	Times         int    // 地址未变化的连续次数
	TimesFailedIP int    // 获取ip失败的次数
}

func (d *IpCache) Check(newAddr string) bool {
	if newAddr == "" {
		return false
	}
	if d.Addr != newAddr {
		d.Addr = newAddr
		d.Times = 1
		return true
	}
	d.Times++
	return false
}

func (d *IpCache) IncreaseFailedTimes() {
	d.TimesFailedIP++
}

func (d *IpCache) ResetFailedTimes() {
	d.TimesFailedIP = 0
}

func (d *IpCache) GetFailedTimes() int {
	return d.TimesFailedIP
}

func (d *IpCache) GetTimes() int {
	return d.Times
}

func (d *IpCache) GetAddr() string {
	return d.Addr
}

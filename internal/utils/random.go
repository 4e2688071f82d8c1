package utils

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/mozillazg/go-pinyin"
	"github.com/sysu-ecnc-dev/salon-manager/backend/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

var commonSurnames = []string{
	"王", "李", "张", "刘", "陈", "杨", "赵", "黄", "周", "吴",
	"徐", "孙", "胡", "朱", "高", "林", "何", "郭", "马", "罗",
}
var commonNameCharacters = []string{
	"伟", "强", "芳", "敏", "静", "丽", "刚", "杰", "娟", "勇",
	"艳", "涛", "明", "军", "磊", "洋", "勇", "霞", "飞", "玲",
	"超", "华", "平", "辉", "梅", "鑫", "龙", "鹏", "玉", "斌",
	"庆", "建", "丹", "彬", "凤", "旭", "宁", "乐", "成", "欣",
}

func GenerateRandomChineseName() string {
	surname := commonSurnames[rand.Intn(len(commonSurnames))]
	nameLength := rand.Intn(2) + 1
	name := ""

	for i := 0; i < nameLength; i++ {
		name += commonNameCharacters[rand.Intn(len(commonNameCharacters))]
	}
	return surname + name
}

var roles = []domain.Role{
	domain.RoleManager,
	domain.RoleWorker,
}

func GenerateRandomRole() domain.Role {
	return roles[rand.Intn(len(roles))]
}

var digits = "0123456789"

func GenerateUsernameFromChineseName(chineseName string) string {
	pinyinArray := pinyin.LazyConvert(chineseName, nil)
	username := ""

	for _, syllable := range pinyinArray {
		if syllable == "" {
			continue
		}
		length := rand.Intn(len(syllable)) + 1
		username += syllable[:length]
	}

	digitsLength := rand.Intn(3) + 1
	for i := 0; i < digitsLength; i++ {
		username += string(digits[rand.Intn(len(digits))])
	}

	return username
}

func GenerateRandomUser(password string, emailDomainName string) (*domain.User, error) {
	fullName := GenerateRandomChineseName()
	username := GenerateUsernameFromChineseName(fullName)
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     username,
		PasswordHash: string(passwordHash),
		FullName:     fullName,
		Email:        username + "@" + emailDomainName,
		Role:         GenerateRandomRole(),
	}

	return user, nil
}

// GenerateRandomPhone 生成一个 11 位的手机号
func GenerateRandomPhone() string {
	prefixes := []string{"135", "138", "139", "150", "186", "188"}
	return fmt.Sprintf("%s%08d", prefixes[rand.Intn(len(prefixes))], rand.Intn(100000000))
}

var personalNames = []string{"午休", "培训", "设备维护", "盘点", "消毒", "员工会议"}

// GenerateRandomPersonalAppointment 在 day 当天 9 点到 18 点之间生成一个内部预约，
// 开始时间和时长都按 15 分钟对齐
func GenerateRandomPersonalAppointment(stationIDs []string, day time.Time, loc *time.Location) *domain.Appointment {
	d := day.In(loc)
	slot := rand.Intn(9 * 4) // 9:00 ~ 17:45
	start := time.Date(d.Year(), d.Month(), d.Day(), 9, 0, 0, 0, loc).Add(time.Duration(slot) * 15 * time.Minute)
	duration := time.Duration(rand.Intn(8)+1) * 15 * time.Minute

	name := personalNames[rand.Intn(len(personalNames))]

	return &domain.Appointment{
		StationID:    stationIDs[rand.Intn(len(stationIDs))],
		StartAt:      start,
		EndAt:        start.Add(duration),
		IsPersonal:   true,
		PersonalName: name,
		Description:  name + "（随机生成）",
	}
}
